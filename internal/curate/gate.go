package curate

import (
	"fmt"
	"unicode/utf8"

	"github.com/Veraticus/price-curator/internal/service"
)

const (
	// MinChars is the contents length a record must exceed before it is tokenized.
	MinChars = 300
	// MinTokens is the token count the scrubbed text must exceed to be included.
	MinTokens = 150
	// MaxTokens caps the body of a prompt.
	MaxTokens = 160
	// CeilingChars bounds codec work, assuming about seven characters per token.
	CeilingChars = MaxTokens * 7
)

// passesCharGate reports whether contents is long enough to be worth tokenizing.
func passesCharGate(contents string) bool {
	return utf8.RuneCountInString(contents) > MinChars
}

// truncateChars keeps at most limit runes of s.
func truncateChars(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

// tokenGate encodes text and returns the ids capped at MaxTokens.
// ok is false when the text has MinTokens tokens or fewer.
func tokenGate(codec service.Codec, text string) (ids []int, ok bool, err error) {
	ids, err = codec.Encode(text)
	if err != nil {
		return nil, false, fmt.Errorf("%w: encode: %w", ErrCodec, err)
	}
	if len(ids) <= MinTokens {
		return nil, false, nil
	}
	if len(ids) > MaxTokens {
		ids = ids[:MaxTokens]
	}
	return ids, true, nil
}
