package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"biblio/internal/catalog/models"
	"biblio/internal/catalog/store"
	id "biblio/pkg/domain"
	"biblio/pkg/platform/sentinel"
)

type MemorySuite struct {
	suite.Suite
	ctx   context.Context
	store *store.InMemory
}

func TestMemorySuite(t *testing.T) {
	suite.Run(t, new(MemorySuite))
}

func (s *MemorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()
}

func (s *MemorySuite) save(bookID id.BookID, title, author, isbn string) *models.Book {
	b, err := models.NewBook(bookID, title, author, isbn, 2)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(s.ctx, b))
	return b
}

func (s *MemorySuite) TestGetByID() {
	saved := s.save("B1", "Learning Go", "Bodner", "978-1492077213")

	got, err := s.store.GetByID(s.ctx, "B1")
	s.Require().NoError(err)
	s.Equal(saved.ISBN, got.ISBN)

	_, err = s.store.GetByID(s.ctx, "B404")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemorySuite) TestGetByIDs_SkipsMissing() {
	s.save("B1", "Learning Go", "Bodner", "978-1492077213")
	s.save("B2", "The Go Programming Language", "Donovan", "978-0134190440")

	got, err := s.store.GetByIDs(s.ctx, []id.BookID{"B1", "B404", "B2"})
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Contains(got, id.BookID("B1"))
	s.Contains(got, id.BookID("B2"))
}

func (s *MemorySuite) TestFindByISBN() {
	saved := s.save("B1", "Learning Go", "Bodner", "978-1492077213")

	got, err := s.store.FindByISBN(s.ctx, "978-1492077213")
	s.Require().NoError(err)
	s.Equal(saved.ID, got.ID)

	_, err = s.store.FindByISBN(s.ctx, "978-0000000000")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemorySuite) TestSearchIsCaseInsensitive() {
	s.save("B1", "Learning Go", "Jon Bodner", "978-1492077213")
	s.save("B2", "The Go Programming Language", "Alan Donovan", "978-0134190440")

	byTitle, err := s.store.SearchByTitle(s.ctx, "GO")
	s.Require().NoError(err)
	s.Len(byTitle, 2)

	byAuthor, err := s.store.SearchByAuthor(s.ctx, "bodner")
	s.Require().NoError(err)
	s.Require().Len(byAuthor, 1)
	s.Equal(id.BookID("B1"), byAuthor[0].ID)
}

func (s *MemorySuite) TestGetAll_OrderedByIDSuffix() {
	s.save("B10", "Ten", "A", "isbn-10")
	s.save("B2", "Two", "B", "isbn-2")
	s.save("B1", "One", "C", "isbn-1")

	all, err := s.store.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(id.BookID("B1"), all[0].ID)
	s.Equal(id.BookID("B2"), all[1].ID)
	s.Equal(id.BookID("B10"), all[2].ID)
}

func (s *MemorySuite) TestSaveCopiesRecords() {
	saved := s.save("B1", "Learning Go", "Bodner", "978-1492077213")

	// Mutating the caller's copy must not leak into the store.
	saved.AvailableCopies = 0

	got, err := s.store.GetByID(s.ctx, "B1")
	s.Require().NoError(err)
	s.Equal(2, got.AvailableCopies)
}
