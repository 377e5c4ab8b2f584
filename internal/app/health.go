package app

import (
	"log/slog"

	"github.com/shandysiswandi/medibook/internal/pkg/goerror"
	"github.com/shandysiswandi/medibook/internal/pkg/router"
)

type healthResponse struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

func (healthResponse) Message() string {
	return "service is healthy"
}

func (a *App) health(r *router.Request) (any, error) {
	ctx := r.Context()

	if a.draining.Load() {
		return nil, goerror.NewBusiness("service is shutting down", goerror.CodeUnavailable)
	}

	if err := a.dbConn.Ping(ctx); err != nil {
		slog.ErrorContext(ctx, "health check failed", "name", "database", "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := a.cacheConn.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "health check failed", "name", "redis", "error", err)
		return nil, goerror.NewServer(err)
	}

	return healthResponse{Database: "ok", Redis: "ok"}, nil
}
