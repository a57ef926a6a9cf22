package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"WhalePulse/internal/service/tokens"
	"WhalePulse/internal/usecase"
	pkgcache "WhalePulse/pkg/cache"
	"WhalePulse/pkg/config"
	xhttp "WhalePulse/pkg/http"
	applogger "WhalePulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	handler    xhttp.Handler
	aggregator *usecase.Aggregator
	flows      pkgcache.Service
	logger     *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, handler xhttp.Handler, aggregator *usecase.Aggregator, flows pkgcache.Service, l *applogger.Logger) *App {
	return &App{
		cfg:        cfg,
		handler:    handler,
		aggregator: aggregator,
		flows:      flows,
		logger:     l,
	}
}

// Run starts the HTTP server and blocks until interrupted.
func (a *App) Run() error {
	symbols := a.cfg.Scan.Symbols
	if len(symbols) == 0 {
		symbols = tokens.ScanUniverse
	}

	a.logger.Info("starting",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Int("symbols", len(symbols)),
		applogger.Int("whale_tokens", tokens.TrackedCount()),
		applogger.Bool("whale_tracking", a.aggregator.WhaleTrackingEnabled()),
		applogger.String("regime", a.cfg.Signals.Regime),
	)

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.flows != nil {
		if err := a.flows.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
