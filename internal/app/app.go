package app

import (
	"context"
	"net/http"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
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
	"go.uber.org/atomic"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	password  hash.PasswordHasher
	uid       uid.NumberID
	uuid      uid.StringID
	token     uid.StringID
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	limiter   ratelimit.Limiter
	idemp     idempotency.Guard
	messaging messaging.Publisher
	casbin    *casbin.Enforcer

	// server
	router     *router.Router
	httpServer *http.Server
	draining   atomic.Bool

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMessaging()
	app.initCasbin()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
