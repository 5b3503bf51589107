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

// Return closes an open loan and puts the copy back into circulation.
// Returning an already closed loan is a conflict. A fine attached to the
// loan survives the return; only payment settles it.
func (e *Engine) Return(ctx context.Context, loanID id.LoanID) (*models.Loan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	loan, err := e.loans.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "loan not found: %s", loanID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load loan")
	}
	if loan.IsReturned() {
		return nil, dErrors.New(dErrors.CodeConflict, "loan already returned")
	}

	book, err := e.books.GetByID(ctx, loan.BookID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "book not found: %s", loan.BookID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load book")
	}
	updated, err := book.WithCopyReturned()
	if err != nil {
		return nil, err
	}
	if err := e.books.Save(ctx, updated); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save book")
	}

	if err := loan.Close(requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := e.loans.Save(ctx, loan); err != nil {
		// Compensate the copy increment so inventory is not left long.
		if restoreErr := e.books.Save(ctx, book); restoreErr != nil {
			e.logger.ErrorContext(ctx, "failed to restore book inventory after loan save failure",
				"book_id", book.ID.String(),
				"error", restoreErr.Error(),
			)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save loan")
	}

	e.incrementReturns()
	e.logger.InfoContext(ctx, "loan returned",
		"loan_id", loan.ID.String(),
		"user_id", loan.UserID.String(),
		"book_id", loan.BookID.String(),
	)
	return loan, nil
}

// History returns all of the user's loans, open and closed, oldest first.
func (e *Engine) History(ctx context.Context, userID id.UserID) ([]*models.Loan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	loans, err := e.loans.GetByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load user loans")
	}
	return loans, nil
}

// ListOverdueLoans returns every loan currently overdue.
func (e *Engine) ListOverdueLoans(ctx context.Context) ([]*models.Loan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	loans, err := e.loans.GetAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load loans")
	}
	today := requestcontext.Now(ctx)
	var overdue []*models.Loan
	for _, l := range loans {
		if l.IsOverdue(today) {
			overdue = append(overdue, l)
		}
	}
	return overdue, nil
}
