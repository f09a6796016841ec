package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Veraticus/price-curator/internal/model"
	"github.com/Veraticus/price-curator/internal/service"
)

var _ service.Storage = (*SQLiteStorage)(nil)

// SaveExamples stores included examples for a run in a single transaction.
func (s *SQLiteStorage) SaveExamples(ctx context.Context, runID string, examples []model.CuratedExample) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(runID, "runID"); err != nil {
		return err
	}
	if err := validateExamples(examples); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO examples (run_id, title, category, price, details, prompt, token_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, ex := range examples {
		if _, err = stmt.ExecContext(ctx, runID, ex.Title, ex.Category, ex.Price,
			nullString(ex.Details), ex.Prompt, ex.TokenCount); err != nil {
			return fmt.Errorf("failed to insert example %q: %w", ex.Title, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit examples: %w", err)
	}
	return nil
}

// GetExamples returns stored examples in insertion order.
func (s *SQLiteStorage) GetExamples(ctx context.Context, filter service.ExampleFilter) ([]model.CuratedExample, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	where, args := filterClause(filter)
	query := `SELECT title, category, price, details, prompt, token_count FROM examples` + where + ` ORDER BY id`
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	} else if filter.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query examples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var examples []model.CuratedExample
	for rows.Next() {
		var ex model.CuratedExample
		var category, details sql.NullString
		if err := rows.Scan(&ex.Title, &category, &ex.Price, &details, &ex.Prompt, &ex.TokenCount); err != nil {
			return nil, fmt.Errorf("failed to scan example: %w", err)
		}
		ex.Category = category.String
		ex.Details = details.String
		ex.Include = true
		examples = append(examples, ex)
	}
	return examples, rows.Err()
}

// CountExamples counts stored examples matching filter. Limit and Offset are ignored.
func (s *SQLiteStorage) CountExamples(ctx context.Context, filter service.ExampleFilter) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	where, args := filterClause(filter)
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM examples`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count examples: %w", err)
	}
	return count, nil
}

func filterClause(filter service.ExampleFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.RunID != "" {
		conds = append(conds, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
