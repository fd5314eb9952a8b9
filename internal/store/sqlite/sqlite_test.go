package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secureapp/server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, store.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byEmail, err := s.GetUserByIdentifier(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)
	assert.False(t, byEmail.CreatedAt.IsZero())

	byUsername, err := s.GetUserByIdentifier(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)

	byID, err := s.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
}

func TestCreateDuplicateEmailCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, store.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, store.User{Username: "other", Email: "Alice@Example.COM", PasswordHash: "h"})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestLookupMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetUserByIdentifier(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetUserByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdatePasswordHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, store.User{Username: "alice", Email: "alice@example.com", PasswordHash: "old"})
	require.NoError(t, err)

	require.NoError(t, s.UpdatePasswordHash(ctx, created.ID, "new"))

	u, err := s.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", u.PasswordHash)

	assert.ErrorIs(t, s.UpdatePasswordHash(ctx, "no-such-id", "x"), store.ErrNotFound)
}

func TestDeleteUserByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, store.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUserByEmail(ctx, "ALICE@example.com"))

	_, err = s.GetUserByIdentifier(ctx, "alice@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteUserByEmail(ctx, "alice@example.com"))
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.db")
	ctx := context.Background()

	first, err := Open(path)
	require.NoError(t, err)
	created, err := first.CreateUser(ctx, store.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	u, err := second.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
