package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	plain := NewValidation("maxDistance must be non-negative")
	assert.Equal(t, "VALIDATION: maxDistance must be non-negative", plain.Error())

	wrapped := NewInternal("stage failed", stderrors.New("boom"))
	assert.Equal(t, "INTERNAL: stage failed: boom", wrapped.Error())
}

func TestTypePredicates(t *testing.T) {
	validation := NewValidation("bad options")
	notFound := NewNotFound("node jobSeeker-alice not found")
	internal := NewInternal("stage failed", stderrors.New("boom"))

	assert.True(t, IsValidation(validation))
	assert.False(t, IsValidation(notFound))

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(internal))

	assert.True(t, IsInternal(internal))
	assert.False(t, IsInternal(validation))

	assert.False(t, IsValidation(nil))
	assert.False(t, IsValidation(stderrors.New("plain")))
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	inner := NewNotFound("node missing")
	outer := fmt.Errorf("ego processing: %w", inner)

	assert.True(t, IsNotFound(outer))
	assert.False(t, IsValidation(outer))
}

func TestWrap(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "anything"))
	})

	t.Run("preserves app error type", func(t *testing.T) {
		cause := stderrors.New("field required")
		err := Wrap(NewValidationWrap("bad options", cause), "generating visualization")

		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Equal(t, "VALIDATION: generating visualization: bad options: field required", err.Error())
		assert.True(t, stderrors.Is(err, cause), "cause chain survives wrapping")
	})

	t.Run("foreign errors become internal", func(t *testing.T) {
		cause := stderrors.New("boom")
		err := Wrap(cause, "building graph")

		assert.True(t, IsInternal(err))
		assert.True(t, stderrors.Is(err, cause))
	})
}
