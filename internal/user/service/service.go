// Package service implements user registration, deregistration, and the
// admin credential check.
package service

import (
	"context"
	"errors"
	"log/slog"

	lendingModels "biblio/internal/lending/models"
	"biblio/internal/user/models"
	id "biblio/pkg/domain"
	dErrors "biblio/pkg/domain-errors"
	"biblio/pkg/platform/sentinel"
)

// UserStore persists registered users.
type UserStore interface {
	GetByID(ctx context.Context, userID id.UserID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID id.UserID) error
}

// LoanStore is the read-only view of loans the user service needs to block
// deregistration while books are still out.
type LoanStore interface {
	GetByUser(ctx context.Context, userID id.UserID) ([]*lendingModels.Loan, error)
}

// Service manages user accounts.
type Service struct {
	users  UserStore
	loans  LoanStore
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

func New(users UserStore, loans LoanStore, opts ...Option) *Service {
	s := &Service{
		users:  users,
		loans:  loans,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a customer account. Emails must be unique.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	user, err := models.NewUser("pending", name, email, models.RoleCustomer, password)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, user.Email); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up email")
	}

	userID, err := s.nextUserID(ctx)
	if err != nil {
		return nil, err
	}
	user.ID = userID

	if err := s.users.Save(ctx, user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save user")
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID.String())
	return user, nil
}

// Unregister removes the account. It reports false without deleting when the
// user still has unreturned loans.
func (s *Service) Unregister(ctx context.Context, userID id.UserID) (bool, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, dErrors.Newf(dErrors.CodeNotFound, "user not found: %s", userID)
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "load user")
	}

	loans, err := s.loans.GetByUser(ctx, userID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "load loans")
	}
	for _, loan := range loans {
		if !loan.IsReturned() {
			s.logger.InfoContext(ctx, "unregister refused, active loans remain",
				"user_id", userID.String(),
			)
			return false, nil
		}
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "delete user")
	}
	s.logger.InfoContext(ctx, "user unregistered", "user_id", userID.String())
	return true, nil
}

// GetUser returns the account for the id.
func (s *Service) GetUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "user not found: %s", userID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load user")
	}
	return user, nil
}

// AuthenticateAdmin checks the credentials and the admin role. All failure
// modes collapse into one unauthorized error so callers cannot distinguish
// an unknown email from a wrong password.
func (s *Service) AuthenticateAdmin(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up email")
	}
	if !user.CredentialMatches(password) || !user.IsAdmin() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	return user, nil
}

func (s *Service) nextUserID(ctx context.Context) (id.UserID, error) {
	all, err := s.users.GetAll(ctx)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load users for id allocation")
	}
	raw := make([]string, 0, len(all))
	for _, u := range all {
		raw = append(raw, u.ID.String())
	}
	return id.UserID(id.NextID(id.UserIDPrefix, raw)), nil
}
