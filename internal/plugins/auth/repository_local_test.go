package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/localstore"
)

func newLocalRepo(t *testing.T) (UserRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tally.json")
	store, err := localstore.Open(path)
	require.NoError(t, err)
	repo, err := NewLocalUserRepository(store)
	require.NoError(t, err)
	return repo, path
}

func TestLocalRepo_SeedsDemoAdmin(t *testing.T) {
	repo, _ := newLocalRepo(t)
	ctx := context.Background()

	admin, err := repo.FindByUsername(ctx, demoAdminUsername)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)
	assert.True(t, admin.IsApproved)
	assert.True(t, admin.IsActive)
	// The seed password is hashed like any real account.
	assert.NotEqual(t, demoAdminPassword, admin.PasswordHash)
	assert.True(t, verifyPassword(demoAdminPassword, admin.PasswordHash))
}

func TestLocalRepo_SeedsOnlyOnce(t *testing.T) {
	_, path := newLocalRepo(t)

	// Reopening the same file must not seed a second admin.
	store, err := localstore.Open(path)
	require.NoError(t, err)
	repo, err := NewLocalUserRepository(store)
	require.NoError(t, err)

	n, err := repo.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLocalRepo_CreateAndFind(t *testing.T) {
	repo, _ := newLocalRepo(t)
	ctx := context.Background()

	user := &User{
		ID:           "u-1",
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "$argon2id$fake",
		Role:         RoleUser,
		IsActive:     true,
	}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.FindByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	// The hash must round-trip through the file store.
	assert.Equal(t, "$argon2id$fake", got.PasswordHash)

	_, err = repo.FindByID(ctx, "u-404")
	assert.Equal(t, 404, apperror.SafeCode(err))
}

func TestLocalRepo_UsernameOrEmailExists(t *testing.T) {
	repo, _ := newLocalRepo(t)
	ctx := context.Background()

	ok, err := repo.UsernameOrEmailExists(ctx, demoAdminUsername, "other@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UsernameOrEmailExists(ctx, "other", demoAdminEmail)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UsernameOrEmailExists(ctx, "other", "other@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalRepo_UpdateFlags(t *testing.T) {
	repo, _ := newLocalRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &User{ID: "u-1", Username: "alice", Email: "a@x.com"}))

	require.NoError(t, repo.UpdateApproval(ctx, "u-1", true))
	require.NoError(t, repo.UpdateActive(ctx, "u-1", true))
	require.NoError(t, repo.UpdateRole(ctx, "u-1", RoleAdmin))

	got, err := repo.FindByID(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, got.IsApproved)
	assert.True(t, got.IsActive)
	assert.Equal(t, RoleAdmin, got.Role)

	err = repo.UpdateApproval(ctx, "u-404", true)
	assert.Equal(t, 404, apperror.SafeCode(err))

	admins, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, admins) // seeded admin + promoted alice
}

func TestLocalRepo_ListUsersOmitsHashes(t *testing.T) {
	repo, _ := newLocalRepo(t)
	ctx := context.Background()

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, users)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}
}
