// Package tokenizer provides the production text<->token codec backed by tiktoken.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// DefaultEncoding is used when no encoding is configured.
const DefaultEncoding = "cl100k_base"

var (
	// ErrUnknownEncoding is returned when tiktoken cannot load an encoding.
	ErrUnknownEncoding = errors.New("unknown encoding")
	// ErrEncode is returned when text cannot be encoded, e.g. because it
	// contains a special token.
	ErrEncode = errors.New("failed to encode text")
)

var loaderOnce sync.Once

// disallowAllSpecial makes every special token of the encoding an error.
var disallowAllSpecial = []string{"all"}

// Codec implements service.Codec with a tiktoken BPE encoding.
// It is safe for concurrent use.
type Codec struct {
	enc      *tiktoken.Tiktoken
	encoding string
}

// New loads the named encoding from the ranks bundled with the binary,
// so no network access is required.
func New(encoding string) (*Codec, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownEncoding, encoding, err)
	}

	return &Codec{enc: enc, encoding: encoding}, nil
}

// Encoding returns the name of the loaded encoding.
func (c *Codec) Encoding() string {
	return c.encoding
}

// Encode tokenizes text without adding any special tokens. Text that spells
// out a special token such as <|endoftext|> is rejected with ErrEncode.
func (c *Codec) Encode(text string) (ids []int, err error) {
	// tiktoken panics when text contains a disallowed special token.
	defer func() {
		if r := recover(); r != nil {
			ids = nil
			err = fmt.Errorf("%w: %v", ErrEncode, r)
		}
	}()

	return c.enc.Encode(text, nil, disallowAllSpecial), nil
}

// Decode renders ids as text. A sequence cut mid-character decodes with
// U+FFFD in place of the partial bytes.
func (c *Codec) Decode(ids []int) (string, error) {
	return strings.ToValidUTF8(c.enc.Decode(ids), "�"), nil
}
