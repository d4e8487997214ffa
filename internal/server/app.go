// Package server wires the journal together and runs the HTTP server. It
// opens the configured storage backend, applies migrations, builds the
// services and handles graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/archive"
	"github.com/dmitrijs2005/mindjournal/internal/config"
	"github.com/dmitrijs2005/mindjournal/internal/controller"
	"github.com/dmitrijs2005/mindjournal/internal/logging"
	"github.com/dmitrijs2005/mindjournal/internal/persistence"
	"github.com/dmitrijs2005/mindjournal/internal/reflection"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/repomanager"
	"github.com/dmitrijs2005/mindjournal/internal/services"
	"github.com/dmitrijs2005/mindjournal/internal/web"
)

const shutdownTimeout = 10 * time.Second

// openRepositories is a test seam for repomanager.Open.
var openRepositories = repomanager.Open

type App struct {
	config     *config.Config
	logger     logging.Logger
	repos      repomanager.RepositoryManager
	workspaces *controller.Workspaces
	handler    http.Handler
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogFormat, os.Stdout, false)

	repos, err := openRepositories(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}

	store := persistence.NewStore(repos, logger)
	authSvc := services.NewAuthService(store, c, logger)
	entrySvc := services.NewEntryService(store, logger)

	refl, err := reflection.New(c, logger)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	ws := controller.NewWorkspaces(authSvc, func(userID string) *controller.Dashboard {
		return controller.NewDashboard(userID, entrySvc, refl, logger)
	})

	handler := web.NewServer(web.Deps{
		Auth:       authSvc,
		Entries:    entrySvc,
		Reflector:  refl,
		Archive:    archive.NewArchiver(entrySvc, c, logger),
		Workspaces: ws,
		Config:     c,
		Logger:     logger,
	})

	return &App{config: c, logger: logger, repos: repos, workspaces: ws, handler: handler}, nil
}

// Handler returns the root HTTP handler.
func (app *App) Handler() http.Handler {
	return app.handler
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context) error {
	srv := &http.Server{
		Addr:              app.config.HTTPAddr,
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "HTTP shutdown failed", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.HTTPAddr, "backend", app.config.Backend)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the storage backend.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	err := app.startHTTPServer(ctx)
	if err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
	}

	return errors.Join(err, app.Close())
}

// Close releases the storage backend.
func (app *App) Close() error {
	app.workspaces.Close()
	return app.repos.Close()
}
