package model

// RawRecord is one catalog entry as supplied by a catalog loader.
type RawRecord struct {
	Title       string
	Category    string // Assigned by the loader, carried through untouched
	Details     string // Key/value blob as text; empty means absent
	Description []string
	Features    []string
	Price       float64
}
