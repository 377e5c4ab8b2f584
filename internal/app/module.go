package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/medibook/internal/identity"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.identity.enabled") {
		if err := identity.New(identity.Dependency{
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			Token:       a.token,
			HMAC:        a.hmac,
			Password:    a.password,
			Clock:       a.clock,
			Validator:   a.validator,
			Router:      a.router,
			DBConn:      a.dbConn,
			Limiter:     a.limiter,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Goroutine:   a.goroutine,
			JWT:         a.jwt,
			Enforcer:    a.casbin,
		}); err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
	}
}
