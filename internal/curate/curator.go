package curate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/price-curator/internal/model"
	"github.com/Veraticus/price-curator/internal/service"
)

var (
	// ErrCodec wraps any failure reported by the token codec.
	ErrCodec = errors.New("codec failure")
	// ErrNilCodec is returned when a curator is built without a codec.
	ErrNilCodec = errors.New("codec cannot be nil")
)

// Curator decides whether records become training examples.
// It is safe for concurrent use if its codec is.
type Curator struct {
	codec    service.Codec
	scrubber *Scrubber
}

// Option configures a Curator.
type Option func(*Curator)

// WithScrubber replaces the default scrubber.
func WithScrubber(s *Scrubber) Option {
	return func(c *Curator) {
		if s != nil {
			c.scrubber = s
		}
	}
}

// WithDetailRemovals replaces the details boilerplate list.
func WithDetailRemovals(removals []string) Option {
	return func(c *Curator) {
		c.scrubber = NewScrubber(removals)
	}
}

// New creates a curator around a loaded codec.
func New(codec service.Codec, opts ...Option) (*Curator, error) {
	if codec == nil {
		return nil, ErrNilCodec
	}
	c := &Curator{
		codec:    codec,
		scrubber: NewScrubber(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Scrubber returns the scrubber used by the curator.
func (c *Curator) Scrubber() *Scrubber {
	return c.scrubber
}

// Curate builds the example for rec priced at price. Insufficient content is
// not an error: the example comes back with Include unset. Errors only come
// from the codec.
func (c *Curator) Curate(rec model.RawRecord, price float64) (*model.CuratedExample, error) {
	ex := &model.CuratedExample{
		Title:    rec.Title,
		Category: rec.Category,
		Details:  rec.Details,
		Price:    price,
	}

	contents := Assemble(rec, c.scrubber)
	if !passesCharGate(contents) {
		ex.Exclusion = model.ExclusionTooFewChars
		return ex, nil
	}
	contents = truncateChars(contents, CeilingChars)

	text := c.scrubber.Scrub(rec.Title) + "\n" + c.scrubber.Scrub(contents)
	ids, ok, err := tokenGate(c.codec, text)
	if err != nil {
		return nil, err
	}
	if !ok {
		ex.Exclusion = model.ExclusionTooFewTokens
		return ex, nil
	}

	body, err := c.codec.Decode(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrCodec, err)
	}

	prompt := renderPrompt(body, price)
	promptIDs, err := c.codec.Encode(prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: encode prompt: %w", ErrCodec, err)
	}

	ex.Prompt = prompt
	ex.TokenCount = len(promptIDs)
	ex.Include = true
	return ex, nil
}

// Assemble joins description, features and scrubbed details into one
// newline-separated contents string.
func Assemble(rec model.RawRecord, s *Scrubber) string {
	var b strings.Builder

	if description := strings.Join(rec.Description, "\n"); description != "" {
		b.WriteString(description)
		b.WriteByte('\n')
	}
	if features := strings.Join(rec.Features, "\n"); features != "" {
		b.WriteString(features)
		b.WriteByte('\n')
	}
	if rec.Details != "" {
		b.WriteString(s.ScrubDetails(rec.Details))
		b.WriteByte('\n')
	}

	return b.String()
}
