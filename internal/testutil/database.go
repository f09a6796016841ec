// Package testutil provides shared test helpers for packages that need a
// populated curation database.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/price-curator/internal/model"
	"github.com/Veraticus/price-curator/internal/storage"
)

// TestDB is a migrated in-memory database closed at test cleanup.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations
	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Register cleanup
	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedRun stores a run with count included examples. Example i is titled
// "<category> item i", priced i+0.5 and labeled "Price is $i.00".
func (db *TestDB) SeedRun(id, category string, count int) *model.Run {
	db.t.Helper()
	ctx := context.Background()

	run := &model.Run{
		ID:        id,
		Source:    "meta_" + category + ".jsonl",
		Category:  category,
		StartedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Total:     count,
		Included:  count,
	}
	if err := db.Storage.SaveRun(ctx, run); err != nil {
		db.t.Fatalf("failed to seed run %q: %v", id, err)
	}

	examples := make([]model.CuratedExample, count)
	for i := range examples {
		examples[i] = model.CuratedExample{
			Title:      fmt.Sprintf("%s item %d", category, i),
			Category:   category,
			Price:      float64(i) + 0.5,
			Prompt:     fmt.Sprintf("%s\n\nbody %d\n\n%s%d.00", model.Question, i, model.PricePrefix, i),
			TokenCount: 20,
			Include:    true,
		}
	}
	if err := db.Storage.SaveExamples(ctx, run.ID, examples); err != nil {
		db.t.Fatalf("failed to seed examples for run %q: %v", id, err)
	}

	return run
}
