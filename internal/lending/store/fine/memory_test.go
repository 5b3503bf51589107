package fine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"biblio/internal/lending/models"
	"biblio/internal/lending/store/fine"
	id "biblio/pkg/domain"
	"biblio/pkg/platform/sentinel"
)

type MemorySuite struct {
	suite.Suite
	ctx   context.Context
	store *fine.InMemory
}

func TestMemorySuite(t *testing.T) {
	suite.Run(t, new(MemorySuite))
}

func (s *MemorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = fine.NewInMemory()
}

func (s *MemorySuite) save(fineID id.FineID, userID id.UserID, loanID id.LoanID) *models.Fine {
	f, err := models.NewFine(fineID, userID, loanID, 10, 0)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(s.ctx, f))
	return f
}

func (s *MemorySuite) TestGetByUser_OrderedByIDSuffix() {
	s.save("F10", "U1", "L10")
	s.save("F2", "U1", "L2")
	s.save("F1", "U1", "L1")
	s.save("F3", "U2", "L3")

	fines, err := s.store.GetByUser(s.ctx, "U1")
	s.Require().NoError(err)
	s.Require().Len(fines, 3)
	s.Equal(id.FineID("F1"), fines[0].ID)
	s.Equal(id.FineID("F2"), fines[1].ID)
	s.Equal(id.FineID("F10"), fines[2].ID)
}

func (s *MemorySuite) TestGetByLoan() {
	saved := s.save("F1", "U1", "L1")

	got, err := s.store.GetByLoan(s.ctx, "L1")
	s.Require().NoError(err)
	s.Equal(saved.ID, got.ID)

	_, err = s.store.GetByLoan(s.ctx, "L404")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemorySuite) TestSaveCopiesRecords() {
	saved := s.save("F1", "U1", "L1")

	_, err := saved.ApplyPayment(5)
	s.Require().NoError(err)

	got, err := s.store.GetByLoan(s.ctx, "L1")
	s.Require().NoError(err)
	s.Equal(0, got.PaidAmount)
}

func (s *MemorySuite) TestSaveUpserts() {
	saved := s.save("F1", "U1", "L1")

	_, err := saved.ApplyPayment(10)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(s.ctx, saved))

	got, err := s.store.GetByLoan(s.ctx, "L1")
	s.Require().NoError(err)
	s.True(got.IsFullyPaid())
}
