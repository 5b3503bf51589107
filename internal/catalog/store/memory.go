package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"biblio/internal/catalog/models"
	id "biblio/pkg/domain"
	"biblio/pkg/platform/sentinel"
)

// InMemory is a map-backed book store.
type InMemory struct {
	mu    sync.RWMutex
	books map[id.BookID]models.Book
}

func NewInMemory() *InMemory {
	return &InMemory{books: make(map[id.BookID]models.Book)}
}

func (s *InMemory) GetByID(_ context.Context, bookID id.BookID) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[bookID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &b, nil
}

// GetByIDs returns the books matching the given ids, keyed by id. Missing
// ids are simply absent from the result.
func (s *InMemory) GetByIDs(_ context.Context, ids []id.BookID) (map[id.BookID]*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[id.BookID]*models.Book, len(ids))
	for _, bookID := range ids {
		if b, ok := s.books[bookID]; ok {
			book := b
			out[bookID] = &book
		}
	}
	return out, nil
}

func (s *InMemory) GetAll(_ context.Context) ([]*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Book, 0, len(s.books))
	for _, b := range s.books {
		book := b
		out = append(out, &book)
	}
	sortBooks(out)
	return out, nil
}

// FindByISBN returns the book with the exact ISBN, or sentinel.ErrNotFound.
func (s *InMemory) FindByISBN(_ context.Context, isbn string) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.books {
		if b.ISBN == isbn {
			book := b
			return &book, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// SearchByTitle returns books whose title contains the fragment,
// case-insensitively.
func (s *InMemory) SearchByTitle(_ context.Context, fragment string) ([]*models.Book, error) {
	return s.search(func(b models.Book) bool {
		return containsFold(b.Title, fragment)
	}), nil
}

// SearchByAuthor returns books whose author contains the fragment,
// case-insensitively.
func (s *InMemory) SearchByAuthor(_ context.Context, fragment string) ([]*models.Book, error) {
	return s.search(func(b models.Book) bool {
		return containsFold(b.Author, fragment)
	}), nil
}

// Save upserts a book keyed by id.
func (s *InMemory) Save(_ context.Context, book *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books[book.ID] = *book
	return nil
}

func (s *InMemory) search(match func(models.Book) bool) []*models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Book
	for _, b := range s.books {
		if match(b) {
			book := b
			out = append(out, &book)
		}
	}
	sortBooks(out)
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func sortBooks(books []*models.Book) {
	sort.Slice(books, func(i, j int) bool {
		ni, _ := id.NumericSuffix(books[i].ID.String(), id.BookIDPrefix)
		nj, _ := id.NumericSuffix(books[j].ID.String(), id.BookIDPrefix)
		if ni != nj {
			return ni < nj
		}
		return books[i].ID < books[j].ID
	})
}
