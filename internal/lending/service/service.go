// Package service implements the lending engine: borrow eligibility, overdue
// detection, fine generation and payment.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	catalogmodels "biblio/internal/catalog/models"
	lendingmetrics "biblio/internal/lending/metrics"
	"biblio/internal/lending/models"
	id "biblio/pkg/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// overdueFineAmount is the fixed penalty, in currency units, attached to an
// overdue loan exactly once.
const overdueFineAmount = 10

// maxActiveLoans is the number of unreturned loans a user may hold.
const maxActiveLoans = 3

// BookStore is the narrow catalog contract the engine consumes.
type BookStore interface {
	GetByID(ctx context.Context, bookID id.BookID) (*catalogmodels.Book, error)
	Save(ctx context.Context, book *catalogmodels.Book) error
}

// LoanStore persists loans. GetAll and GetByUser return loans ordered by
// ascending id suffix.
type LoanStore interface {
	GetAll(ctx context.Context) ([]*models.Loan, error)
	GetByID(ctx context.Context, loanID id.LoanID) (*models.Loan, error)
	GetByUser(ctx context.Context, userID id.UserID) ([]*models.Loan, error)
	Save(ctx context.Context, loan *models.Loan) error
}

// FineStore persists fines. GetByUser returns fines ordered by ascending id
// suffix, which is creation order; payments rely on it to settle the oldest
// fine first.
type FineStore interface {
	GetAll(ctx context.Context) ([]*models.Fine, error)
	GetByUser(ctx context.Context, userID id.UserID) ([]*models.Fine, error)
	GetByLoan(ctx context.Context, loanID id.LoanID) (*models.Fine, error)
	Save(ctx context.Context, fine *models.Fine) error
}

// Engine enforces the lending rules. Every entry point runs its full
// read-modify-write sequence under one mutex: the stores serialize individual
// calls, but only this lock makes multi-store sequences (fine existence check
// then write, copy decrement then loan insert) atomic with respect to each
// other. Side effects are visible to the very next call; no caching sits
// between the engine and its stores.
type Engine struct {
	mu sync.Mutex

	books BookStore
	loans LoanStore
	fines FineStore

	logger  *slog.Logger
	metrics *lendingmetrics.Metrics
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithMetrics(m *lendingmetrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New builds a lending engine over the given stores.
func New(books BookStore, loans LoanStore, fines FineStore, opts ...Option) *Engine {
	e := &Engine{
		books:  books,
		loans:  loans,
		fines:  fines,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) incrementBorrows() {
	if e.metrics != nil {
		e.metrics.IncrementBorrows()
	}
}

func (e *Engine) incrementBorrowsRejected() {
	if e.metrics != nil {
		e.metrics.IncrementBorrowsRejected()
	}
}

func (e *Engine) incrementReturns() {
	if e.metrics != nil {
		e.metrics.IncrementReturns()
	}
}

func (e *Engine) addFinesCreated(n int) {
	if e.metrics != nil && n > 0 {
		e.metrics.AddFinesCreated(n)
	}
}

func (e *Engine) addFinePayment(applied int) {
	if e.metrics != nil && applied > 0 {
		e.metrics.AddFinePayment(applied)
	}
}

func (e *Engine) observeBorrow(start time.Time) {
	if e.metrics != nil {
		e.metrics.ObserveBorrow(start)
	}
}
