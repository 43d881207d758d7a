package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/portal-assistant/internal/infra/config"
	"github.com/yanqian/portal-assistant/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	metrics *metrics.Provider
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, provider *metrics.Provider) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, metrics: provider}
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server fails, then drains in-flight requests and flushes metrics.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(
			a.server.Shutdown(shutdownCtx),
			a.metrics.Shutdown(shutdownCtx),
		)
	})

	return g.Wait()
}
