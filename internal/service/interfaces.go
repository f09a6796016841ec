// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/price-curator/internal/model"
)

// Codec converts between text and token ids.
// Implementations must be deterministic and safe for concurrent use.
type Codec interface {
	// Encode tokenizes text without adding any control tokens.
	Encode(text string) ([]int, error)
	// Decode renders token ids back to text. It need not invert Encode
	// for truncated sequences.
	Decode(ids []int) (string, error)
}

// ExampleFilter narrows example queries.
type ExampleFilter struct {
	RunID    string
	Category string
	Limit    int
	Offset   int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Run operations
	SaveRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context) ([]model.Run, error)

	// Example operations
	SaveExamples(ctx context.Context, runID string, examples []model.CuratedExample) error
	GetExamples(ctx context.Context, filter ExampleFilter) ([]model.CuratedExample, error)
	CountExamples(ctx context.Context, filter ExampleFilter) (int, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
