package models

import (
	"strings"

	id "biblio/pkg/domain"
	dErrors "biblio/pkg/domain-errors"
)

// Book is a title in the catalog together with its copy inventory.
//
// Invariant: 0 <= AvailableCopies <= TotalCopies.
//
// Copy counts are never mutated in place. The lending engine derives a new
// value via WithCopyBorrowed/WithCopyReturned and persists that, so
// concurrent holders of the same in-memory record never alias a mutation.
type Book struct {
	ID              id.BookID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
}

// NewBook constructs a catalog entry with all copies available.
func NewBook(bookID id.BookID, title, author, isbn string, totalCopies int) (*Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	isbn = strings.TrimSpace(isbn)

	if title == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if author == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "author is required")
	}
	if isbn == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "isbn is required")
	}
	if totalCopies <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "total copies must be positive")
	}

	return &Book{
		ID:              bookID,
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
	}, nil
}

// HasAvailableCopy reports whether at least one copy can be lent out.
func (b *Book) HasAvailableCopy() bool {
	return b.AvailableCopies > 0
}

// WithCopyBorrowed returns a copy of the book with one fewer available copy.
// Returns a conflict error when no copies are available.
func (b *Book) WithCopyBorrowed() (*Book, error) {
	if b.AvailableCopies <= 0 {
		return nil, dErrors.New(dErrors.CodeConflict, "no copies available")
	}
	updated := *b
	updated.AvailableCopies--
	return &updated, nil
}

// WithCopyReturned returns a copy of the book with one more available copy.
// Returns an invariant violation when all copies are already in the library;
// that state means a return was recorded twice or inventory is corrupt.
func (b *Book) WithCopyReturned() (*Book, error) {
	if b.AvailableCopies >= b.TotalCopies {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "available copies would exceed total copies")
	}
	updated := *b
	updated.AvailableCopies++
	return &updated, nil
}
