// Package model holds the data types shared across the curation pipeline.
package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// Question opens every rendered prompt.
	Question = "How much does this cost to the nearest dollar?"
	// PricePrefix introduces the price label at the end of a prompt.
	PricePrefix = "Price is $"
)

// ErrNotIncluded is returned when a prompt is requested from an excluded example.
var ErrNotIncluded = errors.New("example was not included")

// Exclusion records which length gate rejected a record.
type Exclusion string

const (
	// ExclusionNone marks an included example.
	ExclusionNone Exclusion = ""
	// ExclusionTooFewChars means the assembled contents failed the character gate.
	ExclusionTooFewChars Exclusion = "too_few_chars"
	// ExclusionTooFewTokens means the scrubbed text failed the token gate.
	ExclusionTooFewTokens Exclusion = "too_few_tokens"
)

// CuratedExample is a cleaned, curated record with a price.
// Include, a non-empty Prompt and a positive TokenCount always go together.
type CuratedExample struct {
	Title      string
	Category   string
	Details    string // Raw details, never scrubbed
	Prompt     string
	Exclusion  Exclusion
	Price      float64
	TokenCount int
	Include    bool
}

// TestPrompt returns the prompt with the price label removed, ending in PricePrefix.
func (e *CuratedExample) TestPrompt() (string, error) {
	if !e.Include || e.Prompt == "" {
		return "", ErrNotIncluded
	}
	before, _, _ := strings.Cut(e.Prompt, PricePrefix)
	return before + PricePrefix, nil
}

func (e *CuratedExample) String() string {
	return fmt.Sprintf("<%s = $%s>", e.Title, formatPrice(e.Price))
}

// formatPrice prints the shortest form that round-trips. Whole prices get a
// trailing ".0" so 49 reads as 49.0; magnitudes from 1e16 up or below 1e-4
// switch to exponent form (1e+16, 5e-05).
func formatPrice(price float64) string {
	if abs := math.Abs(price); abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(price, 'e', -1, 64)
	}
	s := strconv.FormatFloat(price, 'f', -1, 64)
	if !strings.ContainsAny(s, ".nN") {
		s += ".0"
	}
	return s
}
