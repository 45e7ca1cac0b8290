package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesType(t *testing.T) {
	orig := NewValidation("bad node id")

	wrapped := Wrap(orig, "add nodes failed")

	assert.True(t, IsValidation(wrapped))
	assert.Contains(t, wrapped.Error(), "add nodes failed")
	assert.Contains(t, wrapped.Error(), "bad node id")
}

func TestWrap_ForeignErrorBecomesInternal(t *testing.T) {
	wrapped := Wrap(stderrors.New("boom"), "layout resync")

	assert.True(t, IsInternal(wrapped))
	assert.False(t, IsValidation(wrapped))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestPredicates_MatchThroughWrapping(t *testing.T) {
	base := NewMalformedResponse("unparseable payload", stderrors.New("unexpected token"))
	deep := fmt.Errorf("operation expand: %w", base)

	assert.True(t, IsMalformedResponse(deep))
	assert.False(t, IsAIRequest(deep))
}

func TestConflict(t *testing.T) {
	err := NewConflict("generation already in progress")

	assert.True(t, IsConflict(err))
	assert.Equal(t, ErrorTypeConflict, err.Type)
}
