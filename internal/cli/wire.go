package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/mindjournal/internal/archive"
	"github.com/dmitrijs2005/mindjournal/internal/config"
	"github.com/dmitrijs2005/mindjournal/internal/logging"
	"github.com/dmitrijs2005/mindjournal/internal/persistence"
	"github.com/dmitrijs2005/mindjournal/internal/reflection"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/repomanager"
	"github.com/dmitrijs2005/mindjournal/internal/services"
)

// openRepositories is a test seam for repomanager.Open.
var openRepositories = repomanager.Open

// Setup opens the configured backend, applies migrations and builds an App
// reading from in and writing to out. The returned close function releases
// the backend.
func Setup(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, func() error, error) {
	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("storage init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, nil, fmt.Errorf("migrations failed: %w", err)
	}

	refl, err := reflection.New(cfg, log)
	if err != nil {
		_ = repos.Close()
		return nil, nil, err
	}

	store := persistence.NewStore(repos, log)
	authSvc := services.NewAuthService(store, cfg, log)
	entrySvc := services.NewEntryService(store, log)

	app := NewApp(authSvc, entrySvc, refl, archive.NewArchiver(entrySvc, cfg, log), log, in, out)
	return app, repos.Close, nil
}

// Migrate applies pending schema migrations to the configured backend.
func Migrate(ctx context.Context, cfg *config.Config, out io.Writer) error {
	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage init error: %w", err)
	}
	defer repos.Close()

	if err := repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	fmt.Fprintf(out, "Migrations applied (%s backend).\n", cfg.Backend)
	return nil
}
