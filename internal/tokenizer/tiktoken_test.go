package tokenizer

import (
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := New("")
	require.NoError(t, err)
	return c
}

func TestNew_DefaultEncoding(t *testing.T) {
	c := newTestCodec(t)
	assert.Equal(t, DefaultEncoding, c.Encoding())
}

func TestNew_UnknownEncoding(t *testing.T) {
	_, err := New("not_an_encoding")
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newTestCodec(t)
	text := "How much does this cost to the nearest dollar?\n\nA sturdy steel shelf unit"

	ids, err := c.Encode(text)
	require.NoError(t, err)
	assert.NotEmpty(t, ids)
	assert.Less(t, len(ids), len(text))

	got, err := c.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestCodec_Deterministic(t *testing.T) {
	c := newTestCodec(t)

	first, err := c.Encode("Price is $49.00")
	require.NoError(t, err)
	second, err := c.Encode("Price is $49.00")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCodec_EmptyText(t *testing.T) {
	c := newTestCodec(t)

	ids, err := c.Encode("")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCodec_SpecialTokenIsAnError(t *testing.T) {
	c := newTestCodec(t)

	for _, text := range []string{
		"shelf <|endoftext|> unit",
		"<|fim_prefix|>",
		"trailing <|endofprompt|>",
	} {
		ids, err := c.Encode(text)
		require.ErrorIs(t, err, ErrEncode, text)
		assert.Nil(t, ids)
		assert.Contains(t, err.Error(), "special token")
	}
}

func TestCodec_SpecialTokenLookalikeIsText(t *testing.T) {
	c := newTestCodec(t)

	text := "shelf <|unit|> and <endoftext>"
	ids, err := c.Encode(text)
	require.NoError(t, err)

	got, err := c.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestCodec_TruncatedDecodeIsValidUTF8(t *testing.T) {
	c := newTestCodec(t)

	ids, err := c.Encode("日本語のテキスト 🙂🙂🙂")
	require.NoError(t, err)

	for n := 0; n <= len(ids); n++ {
		got, err := c.Decode(ids[:n])
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(got), "prefix %d", n)
	}
}

func TestCodec_ConcurrentUse(t *testing.T) {
	c := newTestCodec(t)
	want, err := c.Encode("A sturdy steel shelf unit holds books and tools.")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Encode("A sturdy steel shelf unit holds books and tools.")
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}
