package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextID(t *testing.T) {
	t.Run("starts at 1 for empty set", func(t *testing.T) {
		assert.Equal(t, "L1", NextID(LoanIDPrefix, nil))
	})

	t.Run("allocates max plus one", func(t *testing.T) {
		assert.Equal(t, "F4", NextID(FineIDPrefix, []string{"F1", "F3", "F2"}))
	})

	t.Run("is not fooled by lexicographic ordering", func(t *testing.T) {
		assert.Equal(t, "L11", NextID(LoanIDPrefix, []string{"L9", "L10", "L2"}))
	})

	t.Run("skips malformed and foreign ids", func(t *testing.T) {
		existing := []string{"L2", "F9", "Lx", "", "L", "L-3", "broken"}
		assert.Equal(t, "L3", NextID(LoanIDPrefix, existing))
	})
}

func TestNumericSuffix(t *testing.T) {
	n, ok := NumericSuffix("B12", BookIDPrefix)
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = NumericSuffix("U12", BookIDPrefix)
	assert.False(t, ok)

	_, ok = NumericSuffix("B", BookIDPrefix)
	assert.False(t, ok)

	_, ok = NumericSuffix("Btwelve", BookIDPrefix)
	assert.False(t, ok)
}
