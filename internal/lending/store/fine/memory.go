package fine

import (
	"context"
	"sort"
	"sync"

	"biblio/internal/lending/models"
	id "biblio/pkg/domain"
	"biblio/pkg/platform/sentinel"
)

// InMemory is a map-backed fine store.
//
// GetByUser returns fines ordered by ascending id suffix. Fine ids are
// allocated monotonically, so this is creation order: payments settle the
// oldest fine first. The Postgres store provides the same ordering.
type InMemory struct {
	mu    sync.RWMutex
	fines map[id.FineID]models.Fine
}

func NewInMemory() *InMemory {
	return &InMemory{fines: make(map[id.FineID]models.Fine)}
}

func (s *InMemory) GetAll(_ context.Context) ([]*models.Fine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Fine, 0, len(s.fines))
	for _, f := range s.fines {
		fine := f
		out = append(out, &fine)
	}
	sortFines(out)
	return out, nil
}

func (s *InMemory) GetByUser(_ context.Context, userID id.UserID) ([]*models.Fine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Fine
	for _, f := range s.fines {
		if f.UserID == userID {
			fine := f
			out = append(out, &fine)
		}
	}
	sortFines(out)
	return out, nil
}

// GetByLoan returns the fine attached to the loan, or sentinel.ErrNotFound
// when the loan has no fine yet.
func (s *InMemory) GetByLoan(_ context.Context, loanID id.LoanID) (*models.Fine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.fines {
		if f.LoanID == loanID {
			fine := f
			return &fine, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// Save upserts a fine keyed by id.
func (s *InMemory) Save(_ context.Context, fine *models.Fine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fines[fine.ID] = *fine
	return nil
}

func sortFines(fines []*models.Fine) {
	sort.Slice(fines, func(i, j int) bool {
		ni, _ := id.NumericSuffix(fines[i].ID.String(), id.FineIDPrefix)
		nj, _ := id.NumericSuffix(fines[j].ID.String(), id.FineIDPrefix)
		if ni != nj {
			return ni < nj
		}
		return fines[i].ID < fines[j].ID
	})
}
