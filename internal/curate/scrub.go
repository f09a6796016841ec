package curate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// partNumberLen is the length at which a word containing a digit is treated
// as a part or model number and dropped.
const partNumberLen = 7

// DefaultDetailRemovals lists boilerplate removed from the details blob, in order.
// This is a tuned heuristic; battery phrases must come before ":" so they still match.
var DefaultDetailRemovals = []string{
	`"Batteries Included?": "No"`,
	`"Batteries Included?": "Yes"`,
	`"Batteries Required?": "No"`,
	`"Batteries Required?": "Yes"`,
	"By Manufacturer",
	"Item",
	"Date First",
	"Package",
	":",
	"Number of",
	"Best Sellers",
	"Number",
	"Product ",
}

// Rule is one normalization step. Pattern rules replace every regexp match,
// literal rules replace every occurrence of Old.
type Rule struct {
	Pattern *regexp.Regexp
	Name    string
	Old     string
	New     string
}

func (r Rule) apply(s string) string {
	if r.Pattern != nil {
		return r.Pattern.ReplaceAllString(s, r.New)
	}
	return strings.ReplaceAll(s, r.Old, r.New)
}

// DefaultScrubRules normalizes punctuation and whitespace before word filtering.
var DefaultScrubRules = []Rule{
	{
		Name:    "collapse",
		Pattern: regexp.MustCompile(`[:\[\]"{}【】\s\x{0B}\x{1C}-\x{1F}\x{85}\p{Z}]+`),
		New:     " ",
	},
	{Name: "trim", Pattern: regexp.MustCompile(`^ | $`), New: ""},
	{Name: "space-comma", Old: " ,", New: ","},
	{Name: "triple-comma", Old: ",,,", New: ","},
	{Name: "double-comma", Old: ",,", New: ","},
}

// Scrubber cleans titles, contents and details blobs.
type Scrubber struct {
	detailRemovals []string
	rules          []Rule
}

// NewScrubber creates a scrubber using the given details removal list.
// A nil list selects DefaultDetailRemovals.
func NewScrubber(detailRemovals []string) *Scrubber {
	if detailRemovals == nil {
		detailRemovals = DefaultDetailRemovals
	}
	return &Scrubber{
		detailRemovals: append([]string(nil), detailRemovals...),
		rules:          DefaultScrubRules,
	}
}

// ScrubDetails removes every occurrence of each boilerplate string, in order.
// Whitespace is left alone.
func (s *Scrubber) ScrubDetails(details string) string {
	for _, remove := range s.detailRemovals {
		details = strings.ReplaceAll(details, remove, "")
	}
	return details
}

// Scrub normalizes text for tokenization and drops words that look like part numbers.
func (s *Scrubber) Scrub(text string) string {
	for _, rule := range s.rules {
		text = rule.apply(text)
	}

	words := strings.Split(text, " ")
	kept := words[:0]
	for _, word := range words {
		if isPartNumber(word) {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

func isPartNumber(word string) bool {
	if utf8.RuneCountInString(word) < partNumberLen {
		return false
	}
	return strings.IndexFunc(word, isDigit) >= 0
}

// digitLike holds the characters outside Nd that still carry a single digit
// value: superscripts, subscripts, circled and parenthesized 1-9 and similar.
// Fractions and numbers above nine (½, ⑩) are not included.
var digitLike = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00b2, Hi: 0x00b3, Stride: 1},
		{Lo: 0x00b9, Hi: 0x00b9, Stride: 1},
		{Lo: 0x1369, Hi: 0x1371, Stride: 1},
		{Lo: 0x19da, Hi: 0x19da, Stride: 1},
		{Lo: 0x2070, Hi: 0x2070, Stride: 1},
		{Lo: 0x2074, Hi: 0x2079, Stride: 1},
		{Lo: 0x2080, Hi: 0x2089, Stride: 1},
		{Lo: 0x2460, Hi: 0x2468, Stride: 1},
		{Lo: 0x2474, Hi: 0x247c, Stride: 1},
		{Lo: 0x2488, Hi: 0x2490, Stride: 1},
		{Lo: 0x24ea, Hi: 0x24ea, Stride: 1},
		{Lo: 0x24f5, Hi: 0x24fd, Stride: 1},
		{Lo: 0x24ff, Hi: 0x24ff, Stride: 1},
		{Lo: 0x2776, Hi: 0x277e, Stride: 1},
		{Lo: 0x2780, Hi: 0x2788, Stride: 1},
		{Lo: 0x278a, Hi: 0x2792, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10a40, Hi: 0x10a43, Stride: 1},
		{Lo: 0x10e60, Hi: 0x10e68, Stride: 1},
		{Lo: 0x11052, Hi: 0x1105a, Stride: 1},
		{Lo: 0x1e8c7, Hi: 0x1e8cf, Stride: 1},
		{Lo: 0x1f100, Hi: 0x1f10a, Stride: 1},
	},
	LatinOffset: 2,
}

// isDigit reports decimal digits in any script plus the digit-like characters.
func isDigit(r rune) bool {
	return unicode.IsDigit(r) || unicode.Is(digitLike, r)
}
