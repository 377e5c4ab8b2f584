package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Start launches the HTTP server. The returned channel is closed on SIGINT or
// SIGTERM, or when the listener fails, so main always reaches Stop.
func (a *App) Start() <-chan struct{} {
	terminate := make(chan struct{})
	listenErr := make(chan error, 1)

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	go func() {
		ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			slog.Info("termination signal received")
		case err := <-listenErr:
			slog.Error("failed to listen and serve http server", "error", err)
		}

		close(terminate)
	}()

	return terminate
}

// Stop drains and shuts down the HTTP server, waits for background work such
// as credential rehashes, then runs the closers in registration order. A
// failing closer does not stop the ones after it.
func (a *App) Stop(ctx context.Context) {
	a.draining.Store(true)
	a.waitDrain(ctx)

	if a.cancel != nil {
		a.cancel()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for background goroutines to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}

	for _, closer := range a.closers {
		start := time.Now()
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
			continue
		}
		slog.InfoContext(ctx, "resource closed", "name", closer.name, "took", time.Since(start))
	}

	slog.InfoContext(ctx, "application gracefully shutdown")
}

// waitDrain keeps serving while /health reports 503, so a load balancer can
// take the instance out of rotation before connections are refused.
func (a *App) waitDrain(ctx context.Context) {
	if a.config == nil {
		return
	}

	d := a.config.GetSecond("app.server.shutdown_drain_seconds")
	if d <= 0 {
		return
	}

	slog.InfoContext(ctx, "draining before shutdown", "duration", d)
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
