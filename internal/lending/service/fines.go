package service

import (
	"context"
	"errors"

	"biblio/internal/lending/models"
	id "biblio/pkg/domain"
	dErrors "biblio/pkg/domain-errors"
	"biblio/pkg/platform/sentinel"
	"biblio/pkg/requestcontext"
)

// GenerateFinesForOverdue scans all loans and creates the fixed penalty for
// each overdue loan that does not have a fine yet. Returns how many fines
// were created.
//
// Idempotent: existence is keyed by loan id, so repeated calls over an
// unchanged loan set create nothing.
func (e *Engine) GenerateFinesForOverdue(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generateFinesLocked(ctx)
}

func (e *Engine) generateFinesLocked(ctx context.Context) (int, error) {
	today := requestcontext.Now(ctx)

	loans, err := e.loans.GetAll(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "load loans")
	}

	fineIDs, err := e.fineIDs(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, loan := range loans {
		if !loan.IsOverdue(today) {
			continue
		}
		if _, err := e.fines.GetByLoan(ctx, loan.ID); err == nil {
			continue
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return created, dErrors.Wrap(err, dErrors.CodeInternal, "look up fine by loan")
		}

		fineID := id.FineID(id.NextID(id.FineIDPrefix, fineIDs))
		fine, err := models.NewFine(fineID, loan.UserID, loan.ID, overdueFineAmount, 0)
		if err != nil {
			return created, err
		}
		if err := e.fines.Save(ctx, fine); err != nil {
			return created, dErrors.Wrap(err, dErrors.CodeInternal, "save fine")
		}
		fineIDs = append(fineIDs, fineID.String())
		created++

		e.logger.InfoContext(ctx, "overdue fine created",
			"fine_id", fineID.String(),
			"loan_id", loan.ID.String(),
			"user_id", loan.UserID.String(),
			"amount", overdueFineAmount,
		)
	}

	e.addFinesCreated(created)
	return created, nil
}

// PayFine applies a payment across the user's fines, settling the oldest
// fine first, and returns the amount actually applied. The applied amount
// never exceeds the user's total outstanding, so overpayment leaves the
// remainder with the caller rather than in a credit balance.
func (e *Engine) PayFine(ctx context.Context, userID id.UserID, amount int) (int, error) {
	if amount <= 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "payment amount must be positive")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.generateFinesLocked(ctx); err != nil {
		return 0, err
	}

	fines, err := e.fines.GetByUser(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "load user fines")
	}

	remaining := amount
	for _, fine := range fines {
		if fine.Outstanding() <= 0 {
			continue
		}
		applied, err := fine.ApplyPayment(remaining)
		if err != nil {
			return amount - remaining, err
		}
		if err := e.fines.Save(ctx, fine); err != nil {
			return amount - remaining, dErrors.Wrap(err, dErrors.CodeInternal, "save fine")
		}
		remaining -= applied
		if remaining == 0 {
			break
		}
	}

	applied := amount - remaining
	e.addFinePayment(applied)
	if applied > 0 {
		e.logger.InfoContext(ctx, "fine payment applied",
			"user_id", userID.String(),
			"applied", applied,
		)
	}
	return applied, nil
}

// OutstandingFine returns the sum of outstanding amounts across the user's
// fines, refreshing overdue-driven fines first.
func (e *Engine) OutstandingFine(ctx context.Context, userID id.UserID) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.generateFinesLocked(ctx); err != nil {
		return 0, err
	}
	return e.outstandingLocked(ctx, userID)
}

func (e *Engine) outstandingLocked(ctx context.Context, userID id.UserID) (int, error) {
	fines, err := e.fines.GetByUser(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "load user fines")
	}
	sum := 0
	for _, f := range fines {
		sum += f.Outstanding()
	}
	return sum, nil
}

func (e *Engine) fineIDs(ctx context.Context) ([]string, error) {
	all, err := e.fines.GetAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load fines for id allocation")
	}
	raw := make([]string, 0, len(all))
	for _, f := range all {
		raw = append(raw, f.ID.String())
	}
	return raw, nil
}
