package model

import "time"

// Run summarizes one curation pass over a catalog source.
type Run struct {
	StartedAt    time.Time
	ID           string
	Source       string
	Category     string
	Total        int
	Included     int
	TooFewChars  int
	TooFewTokens int
}

// Excluded returns the number of records rejected by either length gate.
func (r *Run) Excluded() int {
	return r.TooFewChars + r.TooFewTokens
}
