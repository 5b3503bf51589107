package models

import (
	id "biblio/pkg/domain"
	dErrors "biblio/pkg/domain-errors"
)

// Fine is an overdue penalty attached to a single loan. At most one fine
// exists per loan; the lending engine enforces that by checking the loan id
// before creation.
//
// Invariant: 0 <= PaidAmount <= TotalAmount. Amounts are whole currency
// units. Once created a fine is only ever mutated by payments, never deleted.
type Fine struct {
	ID          id.FineID `json:"id"`
	UserID      id.UserID `json:"user_id"`
	LoanID      id.LoanID `json:"loan_id"`
	TotalAmount int       `json:"total_amount"`
	PaidAmount  int       `json:"paid_amount"`
}

// NewFine constructs a fine, validating the amount invariant.
func NewFine(fineID id.FineID, userID id.UserID, loanID id.LoanID, totalAmount, paidAmount int) (*Fine, error) {
	if totalAmount < 0 || paidAmount < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "fine amounts must be non-negative")
	}
	if paidAmount > totalAmount {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "paid amount cannot exceed total amount")
	}
	return &Fine{
		ID:          fineID,
		UserID:      userID,
		LoanID:      loanID,
		TotalAmount: totalAmount,
		PaidAmount:  paidAmount,
	}, nil
}

// Outstanding returns the unpaid remainder.
func (f *Fine) Outstanding() int {
	return f.TotalAmount - f.PaidAmount
}

// IsFullyPaid reports whether nothing remains outstanding.
func (f *Fine) IsFullyPaid() bool {
	return f.Outstanding() == 0
}

// ApplyPayment applies up to amount against the outstanding balance and
// returns how much was actually applied. A payment against a fully paid fine
// applies zero. Non-positive amounts are a validation error.
func (f *Fine) ApplyPayment(amount int) (int, error) {
	if amount <= 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "payment amount must be positive")
	}
	applied := min(f.Outstanding(), amount)
	f.PaidAmount += applied
	return applied, nil
}
