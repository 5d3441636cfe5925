package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderError_Message(t *testing.T) {
	err := &OrderError{
		Code:       ErrCodeNotFound,
		Message:    "item has no key in collection",
		Collection: "todos",
		ItemID:     "x",
	}
	assert.Equal(t, "NOT_FOUND: item has no key in collection (collection=todos, item=x)", err.Error())

	err = &OrderError{Code: ErrCodeConflict, Message: "boom", Collection: "todos"}
	assert.Equal(t, "CONFLICT: boom (collection=todos)", err.Error())
}

func TestErrorPredicates_UnwrapThroughLayers(t *testing.T) {
	base := newNotFoundError("todos", "x", ErrNotFound)
	wrapped := fmt.Errorf("outer: %w", base)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.False(t, IsInvariantViolation(wrapped))
	assert.True(t, errors.Is(wrapped, ErrNotFound), "the store sentinel must stay reachable")
}

func TestErrorPredicates_PlainErrors(t *testing.T) {
	assert.False(t, IsNotFound(errors.New("nope")))
	assert.False(t, IsConflict(nil))
}
