package identity

import (
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/medibook/internal/identity/inbound"
	"github.com/shandysiswandi/medibook/internal/identity/outbound/db"
	"github.com/shandysiswandi/medibook/internal/identity/outbound/mq"
	"github.com/shandysiswandi/medibook/internal/identity/usecase"
	"github.com/shandysiswandi/medibook/internal/pkg/clock"
	"github.com/shandysiswandi/medibook/internal/pkg/config"
	"github.com/shandysiswandi/medibook/internal/pkg/goroutine"
	"github.com/shandysiswandi/medibook/internal/pkg/hash"
	"github.com/shandysiswandi/medibook/internal/pkg/idempotency"
	"github.com/shandysiswandi/medibook/internal/pkg/instrument"
	"github.com/shandysiswandi/medibook/internal/pkg/jwt"
	"github.com/shandysiswandi/medibook/internal/pkg/messaging"
	"github.com/shandysiswandi/medibook/internal/pkg/ratelimit"
	"github.com/shandysiswandi/medibook/internal/pkg/router"
	"github.com/shandysiswandi/medibook/internal/pkg/uid"
	"github.com/shandysiswandi/medibook/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Enforcer    *casbin.Enforcer           `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Limiter     ratelimit.Limiter          `validate:"required"`
	Idempotency idempotency.Guard          `validate:"required"`
	Messaging   messaging.Publisher        `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	Token       uid.StringID               `validate:"required"`
	HMAC        hash.Hash                  `validate:"required"`
	Password    hash.PasswordHasher        `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	JWT         jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbIdentity := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbIdentity,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Password:      dep.Password,
		HMAC:          dep.HMAC,
		UID:           dep.UID,
		Token:         dep.Token,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
		Enforcer:      dep.Enforcer,
		Goroutine:     dep.Goroutine,
		Limiter:       dep.Limiter,
		Idempotency:   dep.Idempotency,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}

// PublicEndpoints lists the identity routes served without a bearer token.
var PublicEndpoints = inbound.PublicEndpoints
