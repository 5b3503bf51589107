package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "biblio/pkg/domain-errors"
)

func TestNewFine(t *testing.T) {
	t.Run("valid fine", func(t *testing.T) {
		fine, err := NewFine("F1", "U1", "L1", 30, 10)
		require.NoError(t, err)
		assert.Equal(t, 20, fine.Outstanding())
		assert.False(t, fine.IsFullyPaid())
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := NewFine("F1", "U1", "L1", -1, 0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		_, err = NewFine("F1", "U1", "L1", 10, -1)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects paid exceeding total", func(t *testing.T) {
		_, err := NewFine("F1", "U1", "L1", 10, 11)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestFineApplyPayment(t *testing.T) {
	t.Run("partial payment", func(t *testing.T) {
		fine, _ := NewFine("F1", "U1", "L1", 30, 0)
		applied, err := fine.ApplyPayment(10)
		require.NoError(t, err)
		assert.Equal(t, 10, applied)
		assert.Equal(t, 20, fine.Outstanding())
	})

	t.Run("overpayment caps at outstanding", func(t *testing.T) {
		fine, _ := NewFine("F1", "U1", "L1", 30, 10)
		applied, err := fine.ApplyPayment(50)
		require.NoError(t, err)
		assert.Equal(t, 20, applied)
		assert.Equal(t, 0, fine.Outstanding())
		assert.True(t, fine.IsFullyPaid())
	})

	t.Run("payment on a settled fine applies zero", func(t *testing.T) {
		fine, _ := NewFine("F1", "U1", "L1", 10, 10)
		applied, err := fine.ApplyPayment(5)
		require.NoError(t, err)
		assert.Equal(t, 0, applied)
		assert.Equal(t, 10, fine.PaidAmount)
	})

	t.Run("non-positive amounts are rejected without mutation", func(t *testing.T) {
		fine, _ := NewFine("F1", "U1", "L1", 30, 10)
		for _, amount := range []int{0, -5} {
			_, err := fine.ApplyPayment(amount)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, 10, fine.PaidAmount)
		}
	})
}
