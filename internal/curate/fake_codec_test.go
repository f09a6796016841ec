package curate

import (
	"errors"
	"strings"
	"sync"
)

var errFakeCodec = errors.New("fake codec rejected text")

// wordCodec treats each whitespace-separated word as one token.
type wordCodec struct {
	vocab       map[string]int
	failOn      string
	words       []string
	encoded     []string
	decodedLens []int
	mu          sync.Mutex
}

func newWordCodec() *wordCodec {
	return &wordCodec{vocab: make(map[string]int)}
}

func (c *wordCodec) Encode(text string) ([]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.encoded = append(c.encoded, text)
	if c.failOn != "" && strings.Contains(text, c.failOn) {
		return nil, errFakeCodec
	}

	fields := strings.Fields(text)
	ids := make([]int, len(fields))
	for i, f := range fields {
		id, ok := c.vocab[f]
		if !ok {
			id = len(c.words)
			c.vocab[f] = id
			c.words = append(c.words, f)
		}
		ids[i] = id
	}
	return ids, nil
}

func (c *wordCodec) Decode(ids []int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.decodedLens = append(c.decodedLens, len(ids))
	words := make([]string, len(ids))
	for i, id := range ids {
		words[i] = c.words[id]
	}
	return strings.Join(words, " "), nil
}

func (c *wordCodec) encodeCalls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.encoded...)
}

func (c *wordCodec) decodeLens() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.decodedLens...)
}
