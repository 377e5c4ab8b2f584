package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shandysiswandi/medibook/internal/identity/entity"
	"github.com/shandysiswandi/medibook/internal/pkg/clock"
	"github.com/shandysiswandi/medibook/internal/pkg/config"
	"github.com/shandysiswandi/medibook/internal/pkg/goerror"
	"github.com/shandysiswandi/medibook/internal/pkg/hash"
	"github.com/shandysiswandi/medibook/internal/pkg/idempotency"
	"github.com/shandysiswandi/medibook/internal/pkg/instrument"
	"github.com/shandysiswandi/medibook/internal/pkg/jwt"
	"github.com/shandysiswandi/medibook/internal/pkg/ratelimit"
	"github.com/shandysiswandi/medibook/internal/pkg/uid"
	"github.com/shandysiswandi/medibook/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type UserRegisteredEvent struct {
	UserID   int64
	Email    string
	FullName string
	Role     entity.Role
}

type UserPasswordChangedEvent struct {
	UserID    int64
	ChangedAt int64
}

type repoMessaging interface {
	PublishUserRegistered(ctx context.Context, msg UserRegisteredEvent) error
	PublishUserPasswordChanged(ctx context.Context, msg UserPasswordChangedEvent) error
}

type repoDB interface {
	GetUserLoginInfo(ctx context.Context, email string) (*entity.UserLoginInfo, error)
	GetUserCredentialInfo(ctx context.Context, id int64) (*entity.UserCredentialInfo, error)
	GetUserRefreshToken(ctx context.Context, token string) (*entity.UserRefreshToken, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)

	CreateRefreshToken(ctx context.Context, in entity.RefreshToken) error
	NewRegistration(ctx context.Context, user entity.NewUser, hash string) error

	RevokeRefreshToken(ctx context.Context, userID int64, token string) error
	RevokeAllRefreshToken(ctx context.Context, userID int64) error
	RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) error

	UpdateUserCredential(ctx context.Context, userID int64, hash string) error
	// ReplaceUserCredential swaps oldHash for newHash and reports whether the
	// stored value was still oldHash.
	ReplaceUserCredential(ctx context.Context, userID int64, oldHash, newHash string) (bool, error)
}

type enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

type goroutine interface {
	Go(ctx context.Context, f func(ctx context.Context) error) bool
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	password      hash.PasswordHasher
	hmac          hash.Hash
	uid           uid.NumberID
	token         uid.StringID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	enforcer      enforcer
	goroutine     goroutine
	limiter       ratelimit.Limiter
	idemp         idempotency.Guard

	dummyOnce sync.Once
	dummyHash string
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Password      hash.PasswordHasher
	HMAC          hash.Hash
	UID           uid.NumberID
	Token         uid.StringID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Enforcer      enforcer
	Goroutine     goroutine
	Limiter       ratelimit.Limiter
	Idempotency   idempotency.Guard
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		password:      dep.Password,
		hmac:          dep.HMAC,
		uid:           dep.UID,
		token:         dep.Token,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
		goroutine:     dep.Goroutine,
		limiter:       dep.Limiter,
		idemp:         dep.Idempotency,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

// verifyDummy burns one verification against a throwaway hash so that an
// unknown account costs the same as a wrong password.
func (s *Usecase) verifyDummy(ctx context.Context, plaintext string) {
	s.dummyOnce.Do(func() {
		h, err := s.password.Hash("medibook-unknown-account")
		if err != nil {
			slog.ErrorContext(ctx, "failed to build dummy credential hash", "error", err)
			return
		}
		s.dummyHash = string(h)
	})

	if s.dummyHash != "" {
		_ = s.password.Verify(s.dummyHash, plaintext)
	}
}

func (s *Usecase) ensureUserStatusAllowed(ctx context.Context, userID int64, status entity.UserStatus) error {
	switch status.Ensure() {
	case entity.UserStatusUnknown:
		slog.WarnContext(ctx, "user account status is unrecognized", "user_id", userID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)

	case entity.UserStatusUnverified:
		slog.WarnContext(ctx, "user account is unverified", "user_id", userID)
		return goerror.NewBusiness("account not verified", goerror.CodeForbidden)

	case entity.UserStatusBanned:
		slog.WarnContext(ctx, "user account is banned", "user_id", userID)
		return goerror.NewBusiness("account is banned", goerror.CodeForbidden)

	case entity.UserStatusInactive:
		slog.WarnContext(ctx, "user account is deactivated", "user_id", userID)
		return goerror.NewBusiness("account is deactivated", goerror.CodeForbidden)

	default:
		return nil
	}
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	return clm, nil
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.enforcer.Enforce(clm.Role, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.UserID, "role", clm.Role, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !ok {
		slog.WarnContext(ctx, "account not allowed", "user_id", clm.UserID, "role", clm.Role, "obj", obj, "act", act)
		return nil, goerror.NewBusiness("account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

// issueTokens returns a signed access token and a fresh refresh token, whose
// HMAC is stored.
func (s *Usecase) issueTokens(ctx context.Context, sub jwt.Subject, meta entity.RefreshToken) (string, string, error) {
	acToken, err := s.jwt.Generate(sub)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", sub.UserID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	refToken := s.token.Generate()
	refTokenHash, err := s.hmac.Hash(refToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "user_id", sub.UserID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	meta.ID = s.uid.Generate()
	meta.UserID = sub.UserID
	meta.Token = string(refTokenHash)
	meta.ExpiresAt = s.clock.Now().Add(s.cfg.GetDay("modules.identity.refresh_token_ttl_days"))

	if err := s.repoDB.CreateRefreshToken(ctx, meta); err != nil {
		slog.ErrorContext(ctx, "failed to repo create refresh token", "user_id", sub.UserID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	return acToken, refToken, nil
}
