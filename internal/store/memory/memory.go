// Package memory provides an in-memory UserStore for tests and for running
// the server without a database file.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"secureapp/server/internal/store"
)

// Store keeps all users in a mutex-guarded map. The lock spans the
// duplicate check and the insert so uniqueness holds under concurrency.
type Store struct {
	mu    sync.Mutex
	users map[string]store.User
}

func NewStore() *Store {
	return &Store{users: make(map[string]store.User)}
}

func (s *Store) CreateUser(_ context.Context, u store.User) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return store.User{}, store.ErrConflict
		}
	}

	u.ID = uuid.NewString()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUserByIdentifier(_ context.Context, identifier string) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.ToLower(u.Email) == identifier || strings.ToLower(u.Username) == identifier {
			copied := u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, id string) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := u
	return &copied, nil
}

func (s *Store) UpdatePasswordHash(_ context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = hash
	s.users[id] = u
	return nil
}

func (s *Store) DeleteUserByEmail(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			delete(s.users, id)
		}
	}
	return nil
}
