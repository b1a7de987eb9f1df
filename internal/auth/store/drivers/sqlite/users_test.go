package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pixelbay/photoshare/internal/auth/domain"
	"github.com/pixelbay/photoshare/internal/auth/store"
	"github.com/pixelbay/photoshare/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "auth-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func testUser(role domain.Role) domain.User {
	id := idx.New().String()
	return domain.User{
		ID:           id,
		Email:        id + "@example.com",
		Username:     "user-" + id,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Role:         role,
		Active:       true,
	}
}

func TestUsers_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := testUser(domain.RoleUser)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	byID, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, byID.Email)
	require.Equal(t, domain.RoleUser, byID.Role)
	require.True(t, byID.Active)
	require.False(t, byID.CreatedAt.IsZero())

	byEmail, err := s.Users().GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	byUsername, err := s.Users().GetUserByUsername(ctx, u.Username)
	require.NoError(t, err)
	require.Equal(t, u.ID, byUsername.ID)
}

func TestUsers_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := testUser(domain.RoleUser)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	dup := testUser(domain.RoleUser)
	dup.Email = u.Email
	err := s.Users().CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsers_SetActive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := testUser(domain.RoleUser)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().SetActive(ctx, u.ID, false))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.Active)

	require.NoError(t, s.Users().SetActive(ctx, u.ID, true))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.Active)

	require.ErrorIs(t, s.Users().SetActive(ctx, "missing", false), store.ErrNotFound)
}

func TestUsers_UpdateRole(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := testUser(domain.RoleUser)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().UpdateRole(ctx, u.ID, domain.RoleModerator))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleModerator, got.Role)
}

func TestUsers_UpdatePasswordHash(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := testUser(domain.RoleUser)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
}

func TestUsers_CountAndTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n, err := s.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	// Create through a transaction, as registration does.
	err = s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, testUser(domain.RoleAdmin))
	})
	require.NoError(t, err)

	n, err = s.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// A failing fn rolls the insert back.
	sentinel := store.ErrAlreadyExists
	err = s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, testUser(domain.RoleUser)); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	n, err = s.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
