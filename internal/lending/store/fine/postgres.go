package fine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"biblio/internal/lending/models"
	id "biblio/pkg/domain"
	"biblio/pkg/platform/sentinel"
)

// Postgres is the fines table backed store. Ordering by id length then id
// yields ascending numeric suffix order, which is creation order: payments
// settle the oldest fine first.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const fineColumns = "id, user_id, loan_id, total_amount, paid_amount"

func (s *Postgres) GetAll(ctx context.Context) ([]*models.Fine, error) {
	query := fmt.Sprintf("SELECT %s FROM fines ORDER BY length(id), id", fineColumns)
	return s.queryFines(ctx, query)
}

func (s *Postgres) GetByUser(ctx context.Context, userID id.UserID) ([]*models.Fine, error) {
	query := fmt.Sprintf("SELECT %s FROM fines WHERE user_id = $1 ORDER BY length(id), id", fineColumns)
	return s.queryFines(ctx, query, userID.String())
}

// GetByLoan returns the fine attached to the loan, or sentinel.ErrNotFound
// when the loan has no fine yet.
func (s *Postgres) GetByLoan(ctx context.Context, loanID id.LoanID) (*models.Fine, error) {
	query := fmt.Sprintf("SELECT %s FROM fines WHERE loan_id = $1", fineColumns)
	fine, err := scanFine(s.db.QueryRowContext(ctx, query, loanID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query fine by loan: %w", err)
	}
	return fine, nil
}

// Save upserts a fine keyed by id.
func (s *Postgres) Save(ctx context.Context, fine *models.Fine) error {
	query := `
		INSERT INTO fines (id, user_id, loan_id, total_amount, paid_amount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			loan_id = EXCLUDED.loan_id,
			total_amount = EXCLUDED.total_amount,
			paid_amount = EXCLUDED.paid_amount
	`
	_, err := s.db.ExecContext(ctx, query,
		fine.ID.String(),
		fine.UserID.String(),
		fine.LoanID.String(),
		fine.TotalAmount,
		fine.PaidAmount,
	)
	if err != nil {
		return fmt.Errorf("upsert fine: %w", err)
	}
	return nil
}

func (s *Postgres) queryFines(ctx context.Context, query string, args ...any) ([]*models.Fine, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fines: %w", err)
	}
	defer rows.Close()

	var out []*models.Fine
	for rows.Next() {
		fine, err := scanFine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fine: %w", err)
		}
		out = append(out, fine)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fines: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFine(row rowScanner) (*models.Fine, error) {
	var (
		fine   models.Fine
		rawID  string
		userID string
		loanID string
	)
	if err := row.Scan(&rawID, &userID, &loanID, &fine.TotalAmount, &fine.PaidAmount); err != nil {
		return nil, err
	}
	fine.ID = id.FineID(rawID)
	fine.UserID = id.UserID(userID)
	fine.LoanID = id.LoanID(loanID)
	return &fine, nil
}
