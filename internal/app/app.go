package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"dayTracker/internal/config"
	"dayTracker/internal/logger"
	"dayTracker/internal/seed"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	storage   *Storage
	shutdowns []func() // run in reverse order on Close
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init opens the storage, seeds it when configured and builds the router.
// The logger is expected to be initialised by the caller.
func (a *App) Init(ctx context.Context) error {
	storage, err := OpenStorage(ctx, a.config)
	if err != nil {
		return err
	}
	a.storage = storage
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Closing storage...")
		storage.Close()
	})

	if a.config.App.Seed {
		defaults, err := seed.Load()
		if err != nil {
			return err
		}
		if _, err := seed.Apply(ctx, defaults, storage.Categories, storage.Habits); err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
	}

	a.router = NewRouter(a.config, storage)
	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	return nil
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// server.shutdown_timeout.
func (a *App) Run(ctx context.Context) error {
	if a.server == nil {
		return errors.New("app is not initialised")
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("App: Server started",
			zap.String("addr", a.server.Addr),
			zap.String("base_path", a.config.Server.BasePath),
			zap.String("repository", a.storage.Kind))

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("App: Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("App: Server stopped")
	return nil
}

func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
