package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jensholdgaard/eventdesk/internal/catalog"
	"github.com/jensholdgaard/eventdesk/internal/clock"
	"github.com/jensholdgaard/eventdesk/internal/config"
	"github.com/jensholdgaard/eventdesk/internal/notify"
	"github.com/jensholdgaard/eventdesk/internal/store"
	"github.com/jensholdgaard/eventdesk/internal/telemetry"
)

// openCatalog opens the store and a catalog for one-shot commands. Nothing is
// exported or published; warnings go to stderr.
func openCatalog(ctx context.Context, cfg *config.Config) (*catalog.Manager, *store.Repositories, error) {
	repos, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store (driver=%s): %w", cfg.Database.Driver, err)
	}

	tp := telemetry.NewNopProvider()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	mgr, err := catalog.NewManager(repos.Events, notify.NoopPublisher{}, clock.System{}, logger, tp.TracerProvider, tp.MeterProvider)
	if err != nil {
		_ = repos.Close()
		return nil, nil, fmt.Errorf("creating catalog: %w", err)
	}
	return mgr, repos, nil
}
