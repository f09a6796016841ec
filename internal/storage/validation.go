// Package storage provides the data persistence layer for curated examples.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/price-curator/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidRun      = errors.New("invalid run")
	ErrInvalidExample  = errors.New("invalid example")
	ErrExcludedExample = errors.New("excluded examples cannot be stored")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRun validates a run before it is saved.
func validateRun(run *model.Run) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if run.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRun)
	}
	if run.Source == "" {
		return fmt.Errorf("%w: missing source", ErrInvalidRun)
	}
	if run.StartedAt.IsZero() {
		return fmt.Errorf("%w: missing start time", ErrInvalidRun)
	}
	if run.Included+run.Excluded() > run.Total {
		return fmt.Errorf("%w: counts exceed total %d", ErrInvalidRun, run.Total)
	}
	return nil
}

// validateExamples validates a slice of examples.
func validateExamples(examples []model.CuratedExample) error {
	if examples == nil {
		return fmt.Errorf("%w: examples", ErrNilParameter)
	}
	for i := range examples {
		if err := validateExample(&examples[i]); err != nil {
			return fmt.Errorf("example at index %d: %w", i, err)
		}
	}
	return nil
}

// validateExample checks the inclusion invariant: only complete prompts are stored.
func validateExample(ex *model.CuratedExample) error {
	if !ex.Include {
		return ErrExcludedExample
	}
	if ex.Prompt == "" {
		return fmt.Errorf("%w: missing prompt", ErrInvalidExample)
	}
	if ex.TokenCount <= 0 {
		return fmt.Errorf("%w: token count must be positive", ErrInvalidExample)
	}
	return nil
}
