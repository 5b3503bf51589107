package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"biblio/internal/user/models"
	id "biblio/pkg/domain"
	"biblio/pkg/platform/sentinel"
)

// Postgres is the users table backed store.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const userColumns = "id, name, email, role, password"

func (s *Postgres) GetByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	user, err := scanUser(s.db.QueryRowContext(ctx, query, userID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

func (s *Postgres) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE lower(email) = lower($1)", userColumns)
	user, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

func (s *Postgres) GetAll(ctx context.Context) ([]*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users ORDER BY length(id), id", userColumns)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

// Save upserts a user keyed by id.
func (s *Postgres) Save(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, role, password)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			password = EXCLUDED.password
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID.String(),
		user.Name,
		user.Email,
		string(user.Role),
		user.Password,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// Delete removes a user. Deleting an absent user returns sentinel.ErrNotFound.
func (s *Postgres) Delete(ctx context.Context, userID id.UserID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", userID.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user  models.User
		rawID string
		role  string
	)
	if err := row.Scan(&rawID, &user.Name, &user.Email, &role, &user.Password); err != nil {
		return nil, err
	}
	user.ID = id.UserID(rawID)
	user.Role = models.Role(role)
	return &user, nil
}
