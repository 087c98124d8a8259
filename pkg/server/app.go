package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	xhttp "MarketTemp/pkg/http"
	applogger "MarketTemp/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	logger     *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App. Other resources are released by the injector's cleanup after Run returns.
func New(logger *applogger.Logger, httpServer *xhttp.Server) *App {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &App{
		logger:     logger,
		httpServer: httpServer,
	}
}

// Run starts the HTTP server and blocks until ctx is canceled, SIGINT/SIGTERM arrives
// or the listener fails.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := a.httpServer.Start()

	var runErr error
	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			a.logger.Error("http server start error", applogger.Error(err))
			runErr = err
		}
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	}

	return errors.Join(runErr, a.shutdown())
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()

	var errs []error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}

	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}
