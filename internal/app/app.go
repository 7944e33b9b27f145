// Package app provides the top-level application lifecycle for the SMS
// gateway. It wires together the profile store, the SNS sender, the
// pipeline, and the HTTP server, and manages graceful shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/naviai/smsgate/internal/config"
	"github.com/naviai/smsgate/internal/server"
	"github.com/naviai/smsgate/internal/server/handler"
)

// App is the root application object. It owns the configuration, logger,
// and a list of cleanup functions that are called in reverse order on
// shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies, starts the HTTP server, and blocks until the
// context is cancelled or the server fails. On cancellation the server is
// drained within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	deps, cleanup, err := Wire(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	var healthStore handler.Pinger
	if a.cfg.Health.CheckStore {
		healthStore = deps.StoreHealth
	}

	srv := server.NewServer(
		server.Config{Port: a.cfg.Server.Port},
		server.Handlers{
			Send: handler.NewSendHandler(
				deps.Gateway,
				a.cfg.Responses,
				a.cfg.Server.TrustedProxyHeader,
				a.logger,
			),
			Health: handler.NewHealthHandler(healthStore, a.logger),
		},
		a.logger,
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	g.Go(func() error {
		<-ctx.Done()
		drainCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(a.cfg.Server.DrainSeconds)*time.Second,
		)
		defer cancel()
		return srv.Shutdown(drainCtx)
	})

	return g.Wait()
}

// Close tears down all resources in reverse registration order. It is safe
// to call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
