// Package store defines the durable user record and the interface the
// authentication engine uses to persist it.
//
// The store is the single arbiter of email uniqueness: CreateUser must be an
// atomic check-and-insert, never a read-then-write in the caller.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no user matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrConflict is returned when an insert would violate email uniqueness.
	ErrConflict = errors.New("email already exists")
)

// User is the durable account record. Email is unique case-insensitively.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore is implemented by the sqlite and memory backends.
//
// Identifier lookups receive a lowercased email or username and must match
// case-insensitively against both columns.
type UserStore interface {
	// CreateUser inserts the record, assigning User.ID, and fails with
	// ErrConflict when a user with the same email (case-insensitive)
	// already exists. The uniqueness check and the insert are atomic.
	CreateUser(ctx context.Context, u User) (User, error)

	GetUserByIdentifier(ctx context.Context, identifier string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)

	UpdatePasswordHash(ctx context.Context, id, hash string) error

	// DeleteUserByEmail removes the user with the given email
	// (case-insensitive). Deleting a missing user is not an error.
	DeleteUserByEmail(ctx context.Context, email string) error
}
