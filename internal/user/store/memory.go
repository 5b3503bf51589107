package store

import (
	"context"
	"strings"
	"sync"

	"biblio/internal/user/models"
	id "biblio/pkg/domain"
	"biblio/pkg/platform/sentinel"
)

// InMemory is a map-backed user store. Email lookup is case-insensitive,
// matching how addresses are compared at registration.
type InMemory struct {
	mu    sync.RWMutex
	users map[id.UserID]models.User
}

func NewInMemory() *InMemory {
	return &InMemory{users: make(map[id.UserID]models.User)}
}

func (s *InMemory) GetByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &u, nil
}

func (s *InMemory) GetAll(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		user := u
		out = append(out, &user)
	}
	return out, nil
}

func (s *InMemory) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// Save upserts a user keyed by id.
func (s *InMemory) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.ID] = *user
	return nil
}

// Delete removes a user. Deleting an absent user returns sentinel.ErrNotFound.
func (s *InMemory) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.users, userID)
	return nil
}
