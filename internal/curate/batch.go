package curate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/price-curator/internal/model"
)

// BatchStats counts the outcome of a batch.
type BatchStats struct {
	Total        int
	Included     int
	TooFewChars  int
	TooFewTokens int
	PromptTokens int // Sum over included examples
}

// MeanPromptTokens is the average prompt length of included examples.
func (s BatchStats) MeanPromptTokens() float64 {
	if s.Included == 0 {
		return 0
	}
	return float64(s.PromptTokens) / float64(s.Included)
}

func (s *BatchStats) add(ex *model.CuratedExample) {
	s.Total++
	switch {
	case ex.Include:
		s.Included++
		s.PromptTokens += ex.TokenCount
	case ex.Exclusion == model.ExclusionTooFewChars:
		s.TooFewChars++
	case ex.Exclusion == model.ExclusionTooFewTokens:
		s.TooFewTokens++
	}
}

// Batch curates records with up to workers goroutines, each record priced at
// its own Price. Results keep input order. onDone, if set, is called once per
// finished record and may be called concurrently. The first error cancels the
// rest of the batch.
func Batch(ctx context.Context, c *Curator, records []model.RawRecord, workers int, onDone func()) ([]*model.CuratedExample, BatchStats, error) {
	if workers <= 0 {
		workers = 1
	}

	results := make([]*model.CuratedExample, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, rec := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ex, err := c.Curate(rec, rec.Price)
			if err != nil {
				return fmt.Errorf("record %d (%q): %w", i, rec.Title, err)
			}
			results[i] = ex
			if onDone != nil {
				onDone()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, BatchStats{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, BatchStats{}, err
	}

	var stats BatchStats
	for _, ex := range results {
		if ex != nil {
			stats.add(ex)
		}
	}
	return results, stats, nil
}

// Included filters examples down to those that passed both gates.
func Included(examples []*model.CuratedExample) []model.CuratedExample {
	out := make([]model.CuratedExample, 0, len(examples))
	for _, ex := range examples {
		if ex != nil && ex.Include {
			out = append(out, *ex)
		}
	}
	return out
}
