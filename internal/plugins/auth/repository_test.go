package auth

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchley/tally/internal/apperror"
)

func newSQLRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

func userRows(u *User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "role",
		"is_active", "is_approved", "created_at", "last_login",
	}).AddRow(u.ID, u.Username, u.Email, u.PasswordHash, u.Role,
		u.IsActive, u.IsApproved, u.CreatedAt, u.LastLogin)
}

func TestSQLRepo_FindByUsername(t *testing.T) {
	repo, mock := newSQLRepo(t)

	want := &User{
		ID:         "u-1",
		Username:   "alice",
		Email:      "alice@x.com",
		Role:       RoleUser,
		IsActive:   true,
		IsApproved: true,
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \?`).
		WithArgs("alice").
		WillReturnRows(userRows(want))

	got, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, got.IsApproved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepo_FindByUsername_NotFound(t *testing.T) {
	repo, mock := newSQLRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \?`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByUsername(context.Background(), "nobody")
	assert.Equal(t, 404, apperror.SafeCode(err))
}

func TestSQLRepo_Create(t *testing.T) {
	repo, mock := newSQLRepo(t)

	user := &User{
		ID:           "u-1",
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "$argon2id$hash",
		Role:         RoleUser,
		IsActive:     true,
		IsApproved:   false,
		CreatedAt:    time.Now().UTC(),
	}
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, user.Username, user.Email, user.PasswordHash,
			user.Role, user.IsActive, user.IsApproved, user.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), user))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepo_UsernameOrEmailExists(t *testing.T) {
	repo, mock := newSQLRepo(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("alice", "alice@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.UsernameOrEmailExists(context.Background(), "alice", "alice@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLRepo_UpdateApproval_NotFound(t *testing.T) {
	repo, mock := newSQLRepo(t)

	mock.ExpectExec(`UPDATE users SET is_approved = \? WHERE id = \?`).
		WithArgs(true, "u-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateApproval(context.Background(), "u-404", true)
	assert.Equal(t, 404, apperror.SafeCode(err))
}
