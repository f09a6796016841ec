package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/price-curator/internal/model"
)

func TestInspectSummary_Included(t *testing.T) {
	ex := &model.CuratedExample{
		Title:      "Steel Shelf",
		Category:   "Appliances",
		Price:      49,
		Prompt:     model.Question + "\n\nbody\n\n" + model.PricePrefix + "49.00",
		TokenCount: 172,
		Include:    true,
	}

	summary := inspectSummary(ex, `{"Brand": "Acme"}`)
	assert.Contains(t, summary, "included")
	assert.Contains(t, summary, "172")
	assert.Contains(t, summary, `{"Brand": "Acme"}`)
}

func TestInspectSummary_Excluded(t *testing.T) {
	ex := &model.CuratedExample{
		Title:     "Ice Tray",
		Category:  "Appliances",
		Price:     12.99,
		Exclusion: model.ExclusionTooFewTokens,
	}

	summary := inspectSummary(ex, "")
	assert.Contains(t, summary, "excluded (too few tokens)")
	assert.NotContains(t, summary, "Prompt tokens")
	assert.NotContains(t, summary, "Details")
}
