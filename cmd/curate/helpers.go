package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/price-curator/internal/config"
	"github.com/Veraticus/price-curator/internal/curate"
	"github.com/Veraticus/price-curator/internal/storage"
	"github.com/Veraticus/price-curator/internal/tokenizer"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context, settings *config.Settings) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newCurator loads the codec once and applies any rules override.
func newCurator(settings *config.Settings) (*curate.Curator, error) {
	codec, err := tokenizer.New(settings.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}

	var opts []curate.Option
	if settings.RulesFile != "" {
		removals, err := curate.LoadRules(settings.RulesFile)
		if err != nil {
			return nil, err
		}
		slog.Info("Loaded scrub rules", "path", settings.RulesFile, "detail_removals", len(removals))
		opts = append(opts, curate.WithDetailRemovals(removals))
	}

	return curate.New(codec, opts...)
}
