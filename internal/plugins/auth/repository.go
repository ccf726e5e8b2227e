package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finchley/tally/internal/apperror"
)

// UserRepository defines the data access contract for user records. All
// SQL lives in the concrete implementation -- no SQL leaks out. The demo
// mode implementation in repository_local.go satisfies the same contract
// over the file store.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id string) error

	// Admin operations.
	ListUsers(ctx context.Context) ([]User, error)
	UpdateApproval(ctx context.Context, id string, approved bool) error
	UpdateActive(ctx context.Context, id string, active bool) error
	UpdateRole(ctx context.Context, id string, role string) error
	CountUsers(ctx context.Context) (int, error)
	CountAdmins(ctx context.Context) (int, error)
}

// userColumns is the canonical column list scanned into a User.
const userColumns = `id, username, email, password_hash, role, is_active, is_approved, created_at, last_login`

// userRepository implements UserRepository with hand-written MariaDB queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a user repository backed by the given DB pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user row into the users table.
func (r *userRepository) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, username, email, password_hash, role, is_active, is_approved, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		user.IsApproved,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

func (r *userRepository) scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.IsApproved,
		&user.CreatedAt,
		&user.LastLogin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their UUID.
// Returns apperror.NotFound if no user exists with this ID.
func (r *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByUsername retrieves a user by username.
// Returns apperror.NotFound if no user exists with this username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

// UsernameOrEmailExists returns true if any user already claims the given
// username or email. Used during registration to check for duplicates
// before hashing the password.
func (r *userRepository) UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = ? OR email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, username, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking username/email existence: %w", err)
	}

	return exists, nil
}

// UpdateLastLogin sets the last_login timestamp to now for the given user.
func (r *userRepository) UpdateLastLogin(ctx context.Context, id string) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}

	return nil
}

// --- Admin Operations ---

// ListUsers returns all users ordered by creation date, newest first.
// Password hashes are deliberately excluded; admin views never need
// credential data.
func (r *userRepository) ListUsers(ctx context.Context) ([]User, error) {
	query := `SELECT id, username, email, role, is_active, is_approved, created_at, last_login
	          FROM users ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.Role,
			&u.IsActive, &u.IsApproved, &u.CreatedAt, &u.LastLogin,
		); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// updateFlag runs a single-column user update and maps zero rows to NotFound.
func (r *userRepository) updateFlag(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("user not found")
	}
	return nil
}

// UpdateApproval sets or clears the is_approved flag. The change takes
// effect at the user's next login or session check, not retroactively.
func (r *userRepository) UpdateApproval(ctx context.Context, id string, approved bool) error {
	return r.updateFlag(ctx, `UPDATE users SET is_approved = ? WHERE id = ?`, approved, id)
}

// UpdateActive sets or clears the is_active flag.
func (r *userRepository) UpdateActive(ctx context.Context, id string, active bool) error {
	return r.updateFlag(ctx, `UPDATE users SET is_active = ? WHERE id = ?`, active, id)
}

// UpdateRole changes a user's role.
func (r *userRepository) UpdateRole(ctx context.Context, id string, role string) error {
	return r.updateFlag(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id)
}

// CountUsers returns the total number of registered users.
func (r *userRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// CountAdmins returns the number of users with the admin role.
// Used to prevent demoting or deactivating the last admin.
func (r *userRepository) CountAdmins(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = 'admin'`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}
	return count, nil
}
