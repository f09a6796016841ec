package curate

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/price-curator/internal/model"
)

func batchRecords() []model.RawRecord {
	long := shelfRecord()
	short := model.RawRecord{Title: "Tiny", Description: []string{"Short."}, Price: 10}
	sparse := model.RawRecord{Title: "Lamp", Description: repeat("brightness", 40), Price: 20}

	other := shelfRecord()
	other.Title = "Oak Shelf"
	other.Price = 80.5

	return []model.RawRecord{long, short, sparse, other, short}
}

func TestBatch(t *testing.T) {
	c, _ := newTestCurator(t)
	records := batchRecords()

	var done atomic.Int32
	results, stats, err := Batch(context.Background(), c, records, 3, func() { done.Add(1) })
	require.NoError(t, err)
	require.Len(t, results, len(records))

	for i, ex := range results {
		assert.Equal(t, records[i].Title, ex.Title, "order at %d", i)
		assert.Equal(t, records[i].Price, ex.Price)
	}
	assert.Equal(t, int32(len(records)), done.Load())

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Included)
	assert.Equal(t, 2, stats.TooFewChars)
	assert.Equal(t, 1, stats.TooFewTokens)
	assert.Equal(t, results[0].TokenCount+results[3].TokenCount, stats.PromptTokens)
	assert.InDelta(t, float64(stats.PromptTokens)/2, stats.MeanPromptTokens(), 1e-9)
	assert.True(t, results[3].Include)
	assert.True(t, len(results[3].Prompt) > 0)

	included := Included(results)
	require.Len(t, included, 2)
	assert.Equal(t, "Steel Shelf", included[0].Title)
	assert.Equal(t, "Oak Shelf", included[1].Title)
}

func TestBatch_DefaultsToOneWorker(t *testing.T) {
	c, _ := newTestCurator(t)

	results, stats, err := Batch(context.Background(), c, batchRecords(), 0, nil)
	require.NoError(t, err)
	assert.Len(t, results, 5)
	assert.Equal(t, 5, stats.Total)
}

func TestBatch_Empty(t *testing.T) {
	c, _ := newTestCurator(t)

	results, stats, err := Batch(context.Background(), c, nil, 4, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, stats.MeanPromptTokens())
}

func TestBatch_CodecErrorAbortsBatch(t *testing.T) {
	c, codec := newTestCurator(t)
	codec.failOn = "Oak"

	_, _, err := Batch(context.Background(), c, batchRecords(), 2, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCodec)
	assert.Contains(t, err.Error(), `"Oak Shelf"`)
}

func TestBatch_CanceledContext(t *testing.T) {
	c, _ := newTestCurator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Batch(ctx, c, batchRecords(), 2, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
