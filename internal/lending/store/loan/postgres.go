package loan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"biblio/internal/lending/models"
	id "biblio/pkg/domain"
	"biblio/pkg/platform/sentinel"
)

// Postgres is the loans table backed store. Ordering by id length then id
// yields ascending numeric suffix order for same-prefix ids, matching the
// in-memory store.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const loanColumns = "id, user_id, book_id, borrow_date, due_date, returned_date"

func (s *Postgres) GetAll(ctx context.Context) ([]*models.Loan, error) {
	query := fmt.Sprintf("SELECT %s FROM loans ORDER BY length(id), id", loanColumns)
	return s.queryLoans(ctx, query)
}

func (s *Postgres) GetByID(ctx context.Context, loanID id.LoanID) (*models.Loan, error) {
	query := fmt.Sprintf("SELECT %s FROM loans WHERE id = $1", loanColumns)
	loan, err := scanLoan(s.db.QueryRowContext(ctx, query, loanID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query loan: %w", err)
	}
	return loan, nil
}

func (s *Postgres) GetByUser(ctx context.Context, userID id.UserID) ([]*models.Loan, error) {
	query := fmt.Sprintf("SELECT %s FROM loans WHERE user_id = $1 ORDER BY length(id), id", loanColumns)
	return s.queryLoans(ctx, query, userID.String())
}

// Save upserts a loan keyed by id.
func (s *Postgres) Save(ctx context.Context, loan *models.Loan) error {
	query := `
		INSERT INTO loans (id, user_id, book_id, borrow_date, due_date, returned_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			book_id = EXCLUDED.book_id,
			borrow_date = EXCLUDED.borrow_date,
			due_date = EXCLUDED.due_date,
			returned_date = EXCLUDED.returned_date
	`
	var returned sql.NullTime
	if loan.ReturnedDate != nil {
		returned = sql.NullTime{Time: *loan.ReturnedDate, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		loan.ID.String(),
		loan.UserID.String(),
		loan.BookID.String(),
		loan.BorrowDate,
		loan.DueDate,
		returned,
	)
	if err != nil {
		return fmt.Errorf("upsert loan: %w", err)
	}
	return nil
}

func (s *Postgres) queryLoans(ctx context.Context, query string, args ...any) ([]*models.Loan, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var out []*models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		out = append(out, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loans: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*models.Loan, error) {
	var (
		loan     models.Loan
		rawID    string
		userID   string
		bookID   string
		returned sql.NullTime
	)
	if err := row.Scan(&rawID, &userID, &bookID, &loan.BorrowDate, &loan.DueDate, &returned); err != nil {
		return nil, err
	}
	loan.ID = id.LoanID(rawID)
	loan.UserID = id.UserID(userID)
	loan.BookID = id.BookID(bookID)

	// DATE columns come back as timestamps; pin them to midnight UTC so
	// day-granular comparisons behave the same as with the memory store.
	loan.BorrowDate = models.DateOf(loan.BorrowDate)
	loan.DueDate = models.DateOf(loan.DueDate)
	if returned.Valid {
		d := models.DateOf(returned.Time)
		loan.ReturnedDate = &d
	}
	return &loan, nil
}
