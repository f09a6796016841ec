package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/price-curator/internal/common"
	"github.com/Veraticus/price-curator/internal/model"
)

// SaveRun inserts or updates a run summary.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.Run) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, category, started_at, total, included, too_few_chars, too_few_tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			category = excluded.category,
			total = excluded.total,
			included = excluded.included,
			too_few_chars = excluded.too_few_chars,
			too_few_tokens = excluded.too_few_tokens
	`, run.ID, run.Source, run.Category, run.StartedAt.UTC(),
		run.Total, run.Included, run.TooFewChars, run.TooFewTokens)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, category, started_at, total, included, too_few_chars, too_few_tokens
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context) ([]model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, category, started_at, total, included, too_few_chars, too_few_tokens
		FROM runs ORDER BY started_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var run model.Run
	var category sql.NullString
	if err := row.Scan(&run.ID, &run.Source, &category, &run.StartedAt,
		&run.Total, &run.Included, &run.TooFewChars, &run.TooFewTokens); err != nil {
		return nil, err
	}
	run.Category = category.String
	return &run, nil
}
