package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/localstore"
)

// usersCollection is the localstore collection holding user records.
const usersCollection = "users"

// Credentials of the seeded demo admin. The password is hashed with
// argon2id like any other account; demo mode never stores plaintext.
const (
	demoAdminUsername = "admin"
	demoAdminEmail    = "admin@demo.local"
	demoAdminPassword = "admin"
)

// localUserRepository implements UserRepository over the file-backed demo
// store. It mirrors the SQL repository's contract, including which errors
// map to apperror.NotFound, so the auth service cannot tell the two apart.
type localUserRepository struct {
	store *localstore.Store
}

// NewLocalUserRepository creates the demo-mode user repository. On first
// open (empty users collection) it seeds a single approved admin account
// so the demo is usable immediately.
func NewLocalUserRepository(store *localstore.Store) (UserRepository, error) {
	r := &localUserRepository{store: store}

	existing, err := localstore.All[User](store, usersCollection)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	if len(existing) == 0 {
		if err := r.seedAdmin(); err != nil {
			return nil, fmt.Errorf("seeding demo admin: %w", err)
		}
	}

	return r, nil
}

func (r *localUserRepository) seedAdmin() error {
	hash, err := HashPassword(demoAdminPassword)
	if err != nil {
		return err
	}

	admin := User{
		ID:           uuid.NewString(),
		Username:     demoAdminUsername,
		Email:        demoAdminEmail,
		PasswordHash: hash,
		Role:         RoleAdmin,
		IsActive:     true,
		IsApproved:   true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := localstore.Insert(r.store, usersCollection, toStored(admin)); err != nil {
		return err
	}

	slog.Info("seeded demo admin account",
		slog.String("username", demoAdminUsername),
	)
	return nil
}

// storedUser is the persistence shape. The User JSON tags hide
// PasswordHash from API responses, so the store uses a shadow field that
// keeps it.
type storedUser struct {
	User
	PasswordHash string `json:"password_hash"`
}

func toStored(u User) storedUser {
	return storedUser{User: u, PasswordHash: u.PasswordHash}
}

func fromStored(s storedUser) User {
	u := s.User
	u.PasswordHash = s.PasswordHash
	return u
}

func (r *localUserRepository) all() ([]User, error) {
	stored, err := localstore.All[storedUser](r.store, usersCollection)
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(stored))
	for _, s := range stored {
		users = append(users, fromStored(s))
	}
	return users, nil
}

func (r *localUserRepository) find(pred func(User) bool) (*User, error) {
	users, err := r.all()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if pred(users[i]) {
			return &users[i], nil
		}
	}
	return nil, apperror.NewNotFound("user not found")
}

func (r *localUserRepository) update(id string, fn func(*User)) error {
	n, err := localstore.Update(r.store, usersCollection,
		func(s storedUser) bool { return s.ID == id },
		func(s *storedUser) {
			u := fromStored(*s)
			fn(&u)
			*s = toStored(u)
		})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("user not found")
	}
	return nil
}

func (r *localUserRepository) Create(_ context.Context, user *User) error {
	return localstore.Insert(r.store, usersCollection, toStored(*user))
}

func (r *localUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	return r.find(func(u User) bool { return u.ID == id })
}

func (r *localUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	return r.find(func(u User) bool { return u.Username == username })
}

func (r *localUserRepository) UsernameOrEmailExists(_ context.Context, username, email string) (bool, error) {
	_, err := r.find(func(u User) bool { return u.Username == username || u.Email == email })
	if err == nil {
		return true, nil
	}
	if apperror.SafeCode(err) == 404 {
		return false, nil
	}
	return false, err
}

func (r *localUserRepository) UpdateLastLogin(_ context.Context, id string) error {
	now := time.Now().UTC()
	return r.update(id, func(u *User) { u.LastLogin = &now })
}

func (r *localUserRepository) ListUsers(_ context.Context) ([]User, error) {
	users, err := r.all()
	if err != nil {
		return nil, err
	}
	// Hashes never leave the repository on list, matching the SQL side.
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (r *localUserRepository) UpdateApproval(_ context.Context, id string, approved bool) error {
	return r.update(id, func(u *User) { u.IsApproved = approved })
}

func (r *localUserRepository) UpdateActive(_ context.Context, id string, active bool) error {
	return r.update(id, func(u *User) { u.IsActive = active })
}

func (r *localUserRepository) UpdateRole(_ context.Context, id string, role string) error {
	return r.update(id, func(u *User) { u.Role = role })
}

func (r *localUserRepository) CountUsers(_ context.Context) (int, error) {
	users, err := r.all()
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

func (r *localUserRepository) CountAdmins(_ context.Context) (int, error) {
	users, err := r.all()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, u := range users {
		if u.Role == RoleAdmin {
			count++
		}
	}
	return count, nil
}
