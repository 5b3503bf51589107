package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"biblio/internal/lending/models"
	id "biblio/pkg/domain"
	dErrors "biblio/pkg/domain-errors"
	"biblio/pkg/platform/sentinel"
	"biblio/pkg/requestcontext"
)

// Borrow lends one copy of the book to the user for the standard loan period.
//
// Preconditions are checked in a fixed order, each a distinct rejection:
// unpaid fines, an overdue loan outstanding, the active-loan limit, unknown
// book, no copies available. Overdue-driven fines are refreshed before the
// unpaid-fines check so a loan that became overdue since the last call counts
// against the user.
func (e *Engine) Borrow(ctx context.Context, userID id.UserID, bookID id.BookID) (*models.Loan, error) {
	start := time.Now()
	defer e.observeBorrow(start)

	if strings.TrimSpace(userID.String()) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(bookID.String()) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "book id is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.generateFinesLocked(ctx); err != nil {
		return nil, err
	}

	outstanding, err := e.outstandingLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	if outstanding > 0 {
		return nil, e.reject(dErrors.New(dErrors.CodeConflict, "user has unpaid fines"))
	}

	userLoans, err := e.loans.GetByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load user loans")
	}
	today := requestcontext.Now(ctx)
	active := 0
	hasOverdue := false
	for _, l := range userLoans {
		if l.IsOverdue(today) {
			hasOverdue = true
		}
		if !l.IsReturned() {
			active++
		}
	}
	if hasOverdue {
		return nil, e.reject(dErrors.New(dErrors.CodeConflict, "user has an overdue loan"))
	}
	if active >= maxActiveLoans {
		return nil, e.reject(dErrors.New(dErrors.CodeConflict, "loan limit reached"))
	}

	book, err := e.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, e.reject(dErrors.Newf(dErrors.CodeNotFound, "book not found: %s", bookID))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load book")
	}
	updated, err := book.WithCopyBorrowed()
	if err != nil {
		return nil, e.reject(err)
	}

	loanID, err := e.nextLoanID(ctx)
	if err != nil {
		return nil, err
	}

	if err := e.books.Save(ctx, updated); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save book")
	}

	loan := models.NewLoan(loanID, userID, bookID, today)
	if err := e.loans.Save(ctx, loan); err != nil {
		// Compensate the copy decrement so inventory is not left short.
		if restoreErr := e.books.Save(ctx, book); restoreErr != nil {
			e.logger.ErrorContext(ctx, "failed to restore book inventory after loan save failure",
				"book_id", bookID.String(),
				"error", restoreErr.Error(),
			)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save loan")
	}

	e.incrementBorrows()
	e.logger.InfoContext(ctx, "loan created",
		"loan_id", loan.ID.String(),
		"user_id", userID.String(),
		"book_id", bookID.String(),
		"due_date", loan.DueDate.Format("2006-01-02"),
	)
	return loan, nil
}

func (e *Engine) reject(err error) error {
	e.incrementBorrowsRejected()
	return err
}

func (e *Engine) nextLoanID(ctx context.Context) (id.LoanID, error) {
	all, err := e.loans.GetAll(ctx)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load loans for id allocation")
	}
	raw := make([]string, 0, len(all))
	for _, l := range all {
		raw = append(raw, l.ID.String())
	}
	return id.LoanID(id.NextID(id.LoanIDPrefix, raw)), nil
}
