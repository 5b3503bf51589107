// Package service implements catalog management: adding books and searching
// the collection.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"biblio/internal/catalog/models"
	id "biblio/pkg/domain"
	dErrors "biblio/pkg/domain-errors"
	"biblio/pkg/platform/sentinel"
)

// BookStore persists catalog entries.
type BookStore interface {
	GetByID(ctx context.Context, bookID id.BookID) (*models.Book, error)
	GetByIDs(ctx context.Context, ids []id.BookID) (map[id.BookID]*models.Book, error)
	GetAll(ctx context.Context) ([]*models.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*models.Book, error)
	SearchByTitle(ctx context.Context, fragment string) ([]*models.Book, error)
	SearchByAuthor(ctx context.Context, fragment string) ([]*models.Book, error)
	Save(ctx context.Context, book *models.Book) error
}

// Service manages the book catalog.
type Service struct {
	books  BookStore
	logger *slog.Logger
}

// Option configures optional Service collaborators.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(books BookStore, opts ...Option) *Service {
	s := &Service{
		books:  books,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddBook creates a catalog entry with all copies available. The ISBN must
// be unique across the catalog.
func (s *Service) AddBook(ctx context.Context, title, author, isbn string, totalCopies int) (*models.Book, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "isbn is required")
	}

	if _, err := s.books.FindByISBN(ctx, isbn); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "book with the same isbn already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up isbn")
	}

	bookID, err := s.nextBookID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := models.NewBook(bookID, title, author, isbn, totalCopies)
	if err != nil {
		return nil, err
	}
	if err := s.books.Save(ctx, book); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save book")
	}

	s.logger.InfoContext(ctx, "book added",
		"book_id", book.ID.String(),
		"isbn", book.ISBN,
		"copies", book.TotalCopies,
	)
	return book, nil
}

// GetBook returns the catalog entry for the id.
func (s *Service) GetBook(ctx context.Context, bookID id.BookID) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "book not found: %s", bookID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load book")
	}
	return book, nil
}

// BooksByIDs returns the catalog entries for the given ids, keyed by id.
// Duplicate and blank ids are ignored; ids without a matching book are
// absent from the result rather than an error.
func (s *Service) BooksByIDs(ctx context.Context, ids []id.BookID) (map[id.BookID]*models.Book, error) {
	distinct := make([]id.BookID, 0, len(ids))
	seen := make(map[id.BookID]struct{}, len(ids))
	for _, bookID := range ids {
		if bookID == "" {
			continue
		}
		if _, ok := seen[bookID]; ok {
			continue
		}
		seen[bookID] = struct{}{}
		distinct = append(distinct, bookID)
	}
	if len(distinct) == 0 {
		return map[id.BookID]*models.Book{}, nil
	}

	books, err := s.books.GetByIDs(ctx, distinct)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load books by ids")
	}
	return books, nil
}

// SearchByTitle returns books whose title contains the fragment. A blank
// fragment matches nothing.
func (s *Service) SearchByTitle(ctx context.Context, fragment string) ([]*models.Book, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, nil
	}
	books, err := s.books.SearchByTitle(ctx, fragment)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "search by title")
	}
	return books, nil
}

// SearchByAuthor returns books whose author contains the fragment. A blank
// fragment matches nothing.
func (s *Service) SearchByAuthor(ctx context.Context, fragment string) ([]*models.Book, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, nil
	}
	books, err := s.books.SearchByAuthor(ctx, fragment)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "search by author")
	}
	return books, nil
}

// SearchByISBN returns the book with the exact ISBN.
func (s *Service) SearchByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "isbn is required")
	}
	book, err := s.books.FindByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "no book with isbn %s", isbn)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up isbn")
	}
	return book, nil
}

func (s *Service) nextBookID(ctx context.Context) (id.BookID, error) {
	all, err := s.books.GetAll(ctx)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load books for id allocation")
	}
	raw := make([]string, 0, len(all))
	for _, b := range all {
		raw = append(raw, b.ID.String())
	}
	return id.BookID(id.NextID(id.BookIDPrefix, raw)), nil
}
