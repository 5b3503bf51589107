package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"biblio/internal/catalog/models"
	id "biblio/pkg/domain"
	"biblio/pkg/platform/sentinel"
)

// Postgres is the books table backed store.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const bookColumns = "id, title, author, isbn, total_copies, available_copies"

func (s *Postgres) GetByID(ctx context.Context, bookID id.BookID) (*models.Book, error) {
	query := fmt.Sprintf("SELECT %s FROM books WHERE id = $1", bookColumns)
	book, err := scanBook(s.db.QueryRowContext(ctx, query, bookID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query book: %w", err)
	}
	return book, nil
}

// GetByIDs returns the books matching the given ids, keyed by id. Missing
// ids are simply absent from the result.
func (s *Postgres) GetByIDs(ctx context.Context, ids []id.BookID) (map[id.BookID]*models.Book, error) {
	raw := make([]string, 0, len(ids))
	for _, bookID := range ids {
		raw = append(raw, bookID.String())
	}

	query := fmt.Sprintf("SELECT %s FROM books WHERE id = ANY($1::text[])", bookColumns)
	rows, err := s.db.QueryContext(ctx, query, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("query books by ids: %w", err)
	}
	defer rows.Close()

	out := make(map[id.BookID]*models.Book, len(ids))
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out[book.ID] = book
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return out, nil
}

func (s *Postgres) GetAll(ctx context.Context) ([]*models.Book, error) {
	query := fmt.Sprintf("SELECT %s FROM books ORDER BY length(id), id", bookColumns)
	return s.queryBooks(ctx, query)
}

// FindByISBN returns the book with the exact ISBN, or sentinel.ErrNotFound.
func (s *Postgres) FindByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	query := fmt.Sprintf("SELECT %s FROM books WHERE isbn = $1", bookColumns)
	book, err := scanBook(s.db.QueryRowContext(ctx, query, isbn))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query book by isbn: %w", err)
	}
	return book, nil
}

// SearchByTitle returns books whose title contains the fragment,
// case-insensitively.
func (s *Postgres) SearchByTitle(ctx context.Context, fragment string) ([]*models.Book, error) {
	query := fmt.Sprintf("SELECT %s FROM books WHERE title ILIKE '%%' || $1 || '%%' ORDER BY length(id), id", bookColumns)
	return s.queryBooks(ctx, query, fragment)
}

// SearchByAuthor returns books whose author contains the fragment,
// case-insensitively.
func (s *Postgres) SearchByAuthor(ctx context.Context, fragment string) ([]*models.Book, error) {
	query := fmt.Sprintf("SELECT %s FROM books WHERE author ILIKE '%%' || $1 || '%%' ORDER BY length(id), id", bookColumns)
	return s.queryBooks(ctx, query, fragment)
}

// Save upserts a book keyed by id.
func (s *Postgres) Save(ctx context.Context, book *models.Book) error {
	query := `
		INSERT INTO books (id, title, author, isbn, total_copies, available_copies)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			isbn = EXCLUDED.isbn,
			total_copies = EXCLUDED.total_copies,
			available_copies = EXCLUDED.available_copies
	`
	_, err := s.db.ExecContext(ctx, query,
		book.ID.String(),
		book.Title,
		book.Author,
		book.ISBN,
		book.TotalCopies,
		book.AvailableCopies,
	)
	if err != nil {
		return fmt.Errorf("upsert book: %w", err)
	}
	return nil
}

func (s *Postgres) queryBooks(ctx context.Context, query string, args ...any) ([]*models.Book, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var out []*models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*models.Book, error) {
	var (
		book  models.Book
		rawID string
	)
	if err := row.Scan(&rawID, &book.Title, &book.Author, &book.ISBN, &book.TotalCopies, &book.AvailableCopies); err != nil {
		return nil, err
	}
	book.ID = id.BookID(rawID)
	return &book, nil
}
