package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/samber/lo"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/medibook/internal/identity"
	"github.com/shandysiswandi/medibook/internal/pkg/clock"
	"github.com/shandysiswandi/medibook/internal/pkg/config"
	"github.com/shandysiswandi/medibook/internal/pkg/goroutine"
	"github.com/shandysiswandi/medibook/internal/pkg/hash"
	"github.com/shandysiswandi/medibook/internal/pkg/idempotency"
	"github.com/shandysiswandi/medibook/internal/pkg/instrument"
	"github.com/shandysiswandi/medibook/internal/pkg/jwt"
	"github.com/shandysiswandi/medibook/internal/pkg/messaging"
	"github.com/shandysiswandi/medibook/internal/pkg/migrate"
	"github.com/shandysiswandi/medibook/internal/pkg/pgxcasbin"
	"github.com/shandysiswandi/medibook/internal/pkg/ratelimit"
	"github.com/shandysiswandi/medibook/internal/pkg/router"
	"github.com/shandysiswandi/medibook/internal/pkg/uid"
	"github.com/shandysiswandi/medibook/internal/pkg/validator"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		LogLevel:         a.config.GetString("instrument.log_level"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.token = uid.NewToken(a.config.GetInt("modules.identity.refresh_token_bytes"))
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	hmac, err := hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))
	if err != nil {
		slog.Error("failed to init hmac hasher", "error", err)
		os.Exit(1)
	}
	a.hmac = hmac

	password, err := hash.NewPassword(hash.Config{
		Algorithm:  a.config.GetString("hash.password.algorithm"),
		Pepper:     a.config.GetString("hash.password.pepper"),
		BcryptCost: a.config.GetInt("hash.password.bcrypt_cost"),
		Argon2: hash.Argon2Params{
			Memory:      a.config.GetUint32("hash.password.argon2id.memory_kib"),
			Iterations:  a.config.GetUint32("hash.password.argon2id.iterations"),
			Parallelism: uint8(a.config.GetUint32("hash.password.argon2id.parallelism")), //nolint:gosec // bounded by config
			SaltLength:  a.config.GetUint32("hash.password.argon2id.salt_length"),
			KeyLength:   a.config.GetUint32("hash.password.argon2id.key_length"),
		},
		MaxConcurrent: a.config.GetInt("hash.password.max_concurrent"),
	})
	if err != nil {
		slog.Error("failed to init password hasher", "error", err)
		os.Exit(1)
	}
	a.password = password

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake(a.config.GetInt64("app.node_id"))
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow
}

func (a *App) initJWT() {
	defaultJWT, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(a.config.GetString("jwt.secret")),
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL:       a.config.GetMinute("jwt.ttl_minutes"),
		Clock:     a.clock,
		UUID:      a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = defaultJWT
}

// waitReady pings a dependency with a capped fibonacci backoff until it
// answers or the attempts run out.
func (a *App) waitReady(name string, ping func(ctx context.Context) error) error {
	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(uint64(max(a.config.GetInt("app.startup.max_retries"), 0)), b) //nolint:gosec // clamped

	return retry.Do(a.ctx, b, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := ping(pingCtx); err != nil {
			slog.WarnContext(ctx, "dependency not ready", "name", name, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (a *App) initDatabase() {
	dsn := a.config.GetString("database.url")

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = int32(a.config.GetInt("database.pool.max_conns")) //nolint:gosec // bounded by config
	config.MinConns = int32(a.config.GetInt("database.pool.min_conns")) //nolint:gosec // bounded by config
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	if err := a.waitReady("database", pool.Ping); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	if a.config.GetBool("database.auto_migrate") {
		if err := migrate.Run(dsn, migrate.DirectionUp); err != nil {
			slog.Error("failed to migrate DB", "error", err)
			os.Exit(1)
		}
		slog.Info("database migrated")
	}

	a.dbConn = pool
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	if err := a.waitReady("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() }); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	limiter, err := ratelimit.New(rdb,
		a.config.GetInt("modules.identity.login_max_attempts"),
		a.config.GetSecond("modules.identity.login_window_seconds"),
		ratelimit.WithPrefix("ratelimit:identity:"),
	)
	if err != nil {
		slog.Error("failed to init login rate limiter", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.limiter = limiter
	a.idemp = idempotency.New(rdb, idempotency.WithPrefix("idempotency:identity:"))
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")
	client, err := messaging.NewFromDriver(driver, messaging.FactoryOptions{
		Kafka: messaging.KafkaConfig{
			Brokers:      a.config.GetArray("messaging.kafka.brokers"),
			WriteTimeout: a.config.GetSecond("messaging.kafka.write_timeout_seconds"),
		},
		NATS: messaging.NATSConfig{
			URL:  a.config.GetString("messaging.nats.url"),
			Name: a.config.GetString("messaging.nats.name"),
			Options: []nats.Option{
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
				nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initCasbin() {
	const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		slog.Error("failed to create model casbin", "error", err)
		os.Exit(1)
	}

	adapter := pgxcasbin.NewAdapter(a.dbConn, pgxcasbin.WithTableName("identity_casbin_rules"))

	e, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		slog.Error("failed to init casbin", "error", err)
		os.Exit(1)
	}

	e.EnableAutoSave(true)

	a.casbin = e
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		JWT:        a.jwt,
		Instrument: a.ins,
		PublicEndpoints: lo.Assign(identity.PublicEndpoints, map[string][]string{
			http.MethodGet: {"/health"},
		}),
	})

	a.router.GET("/health", a.health)

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				a.dbConn.Close()

				return nil
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
