package loan

import (
	"context"
	"sort"
	"sync"

	"biblio/internal/lending/models"
	id "biblio/pkg/domain"
	"biblio/pkg/platform/sentinel"
)

// InMemory is a map-backed loan store. Reads and writes copy records so a
// caller can never alias a record held by another caller.
type InMemory struct {
	mu    sync.RWMutex
	loans map[id.LoanID]models.Loan
}

func NewInMemory() *InMemory {
	return &InMemory{loans: make(map[id.LoanID]models.Loan)}
}

// GetAll returns every loan, ordered by ascending id suffix so scans are
// deterministic.
func (s *InMemory) GetAll(_ context.Context) ([]*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Loan, 0, len(s.loans))
	for _, l := range s.loans {
		out = append(out, copyLoan(l))
	}
	sortLoans(out)
	return out, nil
}

func (s *InMemory) GetByID(_ context.Context, loanID id.LoanID) (*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.loans[loanID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyLoan(l), nil
}

// GetByUser returns the user's loans, open and closed, ordered by ascending
// id suffix.
func (s *InMemory) GetByUser(_ context.Context, userID id.UserID) ([]*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Loan
	for _, l := range s.loans {
		if l.UserID == userID {
			out = append(out, copyLoan(l))
		}
	}
	sortLoans(out)
	return out, nil
}

// Save upserts a loan keyed by id.
func (s *InMemory) Save(_ context.Context, loan *models.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loans[loan.ID] = *copyLoan(*loan)
	return nil
}

func copyLoan(l models.Loan) *models.Loan {
	if l.ReturnedDate != nil {
		returned := *l.ReturnedDate
		l.ReturnedDate = &returned
	}
	return &l
}

func sortLoans(loans []*models.Loan) {
	sort.Slice(loans, func(i, j int) bool {
		ni, _ := id.NumericSuffix(loans[i].ID.String(), id.LoanIDPrefix)
		nj, _ := id.NumericSuffix(loans[j].ID.String(), id.LoanIDPrefix)
		if ni != nj {
			return ni < nj
		}
		return loans[i].ID < loans[j].ID
	})
}
