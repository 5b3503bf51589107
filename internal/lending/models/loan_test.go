package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "biblio/pkg/domain-errors"
)

var borrowedAt = time.Date(2026, time.March, 3, 15, 42, 7, 0, time.UTC)

func TestNewLoan(t *testing.T) {
	loan := NewLoan("L1", "U1", "B1", borrowedAt)

	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), loan.BorrowDate,
		"borrow date is normalized to midnight UTC")
	assert.Equal(t, loan.BorrowDate.AddDate(0, 0, 28), loan.DueDate)
	assert.False(t, loan.IsReturned())
	assert.Nil(t, loan.ReturnedDate)
}

func TestLoanIsOverdue(t *testing.T) {
	loan := NewLoan("L1", "U1", "B1", borrowedAt)

	t.Run("not overdue before the due date", func(t *testing.T) {
		assert.False(t, loan.IsOverdue(borrowedAt.AddDate(0, 0, 10)))
	})

	t.Run("not overdue on the due date itself", func(t *testing.T) {
		assert.False(t, loan.IsOverdue(loan.DueDate))
		// Later the same day is still the due date, not overdue.
		assert.False(t, loan.IsOverdue(loan.DueDate.Add(23*time.Hour)))
	})

	t.Run("overdue the day after the due date", func(t *testing.T) {
		assert.True(t, loan.IsOverdue(loan.DueDate.AddDate(0, 0, 1)))
	})

	t.Run("returned loans are never overdue", func(t *testing.T) {
		returned := NewLoan("L2", "U1", "B1", borrowedAt)
		require.NoError(t, returned.Close(borrowedAt.AddDate(0, 0, 40)))
		assert.False(t, returned.IsOverdue(borrowedAt.AddDate(0, 0, 60)))
	})
}

func TestLoanClose(t *testing.T) {
	loan := NewLoan("L1", "U1", "B1", borrowedAt)

	require.NoError(t, loan.Close(borrowedAt.AddDate(0, 0, 5)))
	assert.True(t, loan.IsReturned())
	assert.Equal(t, time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC), *loan.ReturnedDate)

	err := loan.Close(borrowedAt.AddDate(0, 0, 6))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}
