package models

import (
	"time"

	id "biblio/pkg/domain"
	dErrors "biblio/pkg/domain-errors"
)

// LoanPeriodDays is the fixed lending period: every loan is due exactly
// 28 days after it is taken out.
const LoanPeriodDays = 28

// Loan records one book copy lent to one user.
//
// Invariants:
//   - DueDate = BorrowDate + 28 days
//   - ReturnedDate, when set, marks the loan closed
//
// A loan is overdue iff it is not returned and "today" is strictly after the
// due date. The due date itself is not overdue.
type Loan struct {
	ID           id.LoanID  `json:"id"`
	UserID       id.UserID  `json:"user_id"`
	BookID       id.BookID  `json:"book_id"`
	BorrowDate   time.Time  `json:"borrow_date"`
	DueDate      time.Time  `json:"due_date"`
	ReturnedDate *time.Time `json:"returned_date,omitempty"`
}

// NewLoan opens a loan borrowed at the given time. The timestamp is
// normalized to a calendar date; the due date follows from the loan period.
func NewLoan(loanID id.LoanID, userID id.UserID, bookID id.BookID, borrowedAt time.Time) *Loan {
	borrowDate := DateOf(borrowedAt)
	return &Loan{
		ID:         loanID,
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: borrowDate,
		DueDate:    borrowDate.AddDate(0, 0, LoanPeriodDays),
	}
}

// IsReturned reports whether the loan has been closed.
func (l *Loan) IsReturned() bool {
	return l.ReturnedDate != nil
}

// IsOverdue reports whether the loan is open and past its due date.
func (l *Loan) IsOverdue(today time.Time) bool {
	return !l.IsReturned() && DateOf(today).After(l.DueDate)
}

// Close marks the loan returned at the given time. Closing an already
// returned loan is a conflict.
func (l *Loan) Close(returnedAt time.Time) error {
	if l.IsReturned() {
		return dErrors.New(dErrors.CodeConflict, "loan already returned")
	}
	returned := DateOf(returnedAt)
	l.ReturnedDate = &returned
	return nil
}

// DateOf normalizes a timestamp to its calendar date at midnight UTC.
// All due-date arithmetic is day-granular.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
