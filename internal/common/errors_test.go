package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	err := NewUserError("meta_Toys.jsonl has nothing to curate", ErrEmptyCatalog)

	assert.Equal(t, "meta_Toys.jsonl has nothing to curate: catalog has no priced records", err.Error())
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	msg, ok := UserMessage(fmt.Errorf("run: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "meta_Toys.jsonl has nothing to curate", msg)
}

func TestUserError_WithoutCause(t *testing.T) {
	err := NewUserError("line 3 has no usable price", nil)
	assert.Equal(t, "line 3 has no usable price", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestUserMessage_PlainError(t *testing.T) {
	msg, ok := UserMessage(errors.New("disk full"))
	assert.False(t, ok)
	assert.Empty(t, msg)
}
