// Package auth owns "who is using the app and as whom": registration,
// login, logout, session validation, the admin approval gate, and admin
// impersonation. It is the single writer of user and session state; every
// other plugin only reads the authenticated identity via the exported
// middleware getters.
//
// The package is storage-agnostic. It depends on the UserRepository and
// SessionStore interfaces; whether those are backed by MariaDB/Redis
// (remote mode) or the local file store (demo mode) is decided once at
// startup in cmd/server.
package auth

import (
	"time"
)

// Roles a user can hold. Admin unlocks user management and impersonation.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents a registered Tally user. This is the domain model used
// throughout the application. Database scanning and JSON marshaling use
// this struct directly.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never expose in JSON responses.
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	IsApproved   bool       `json:"is_approved"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAuthenticate reports the approval-gate invariant: a user may hold a
// session only while both active and approved.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && u.IsApproved
}

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest holds the data submitted by the registration form.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest holds the data submitted by the login form.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ImpersonateRequest names the user an admin wants to view the app as.
type ImpersonateRequest struct {
	UserID string `json:"user_id"`
}

// --- Service Input DTOs (passed from handler to service) ---

// RegisterInput is the validated input for creating a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Username string
	Password string
}

// --- Session ---

// Session is the authenticated session record, keyed by an opaque token
// held in the client's cookie. UserID/Username/Role describe the
// *presented* identity: during impersonation they point at the target
// user while ImpersonatorID keeps the admin who owns the credential.
//
// Every impersonation transition is a single Put of this record, so two
// racing auth operations can interleave but never leave a half-state:
// last write wins, and the overlay is either fully present or absent.
type Session struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// Impersonation overlay. Non-nil ImpersonatorID means the presented
	// identity is a stand-in and control returns only to that admin.
	ImpersonatorID   *string `json:"impersonator_id,omitempty"`
	ImpersonatorName *string `json:"impersonator_name,omitempty"`
}

// IsImpersonating reports whether the impersonation overlay is set.
func (s *Session) IsImpersonating() bool {
	return s.ImpersonatorID != nil
}
