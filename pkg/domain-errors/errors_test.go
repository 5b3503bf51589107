package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct code", func(t *testing.T) {
		err := New(CodeConflict, "no copies available")
		assert.True(t, HasCode(err, CodeConflict))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("matches through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("borrow: %w", New(CodeValidation, "amount must be positive"))
		assert.True(t, HasCode(err, CodeValidation))
	})

	t.Run("matches inner code through Wrap", func(t *testing.T) {
		inner := New(CodeNotFound, "book not found")
		outer := Wrap(inner, CodeInternal, "borrow failed")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeNotFound))
	})

	t.Run("nil and uncoded errors have no code", func(t *testing.T) {
		assert.False(t, HasCode(nil, CodeInternal))
		assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	})
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "save loan")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "save loan")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeConflict, CodeOf(New(CodeConflict, "loan limit reached")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}
