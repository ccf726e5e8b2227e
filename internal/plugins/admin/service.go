// Package admin implements user management for administrators: approving
// registrations, activating and deactivating accounts, and changing
// roles. It reads and writes users through the auth plugin's repository.
package admin

import (
	"context"
	"log/slog"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/plugins/auth"
)

// Stats summarizes the user base for the admin panel.
type Stats struct {
	TotalUsers      int `json:"total_users"`
	PendingApproval int `json:"pending_approval"`
	ActiveUsers     int `json:"active_users"`
	Admins          int `json:"admins"`
}

// Service contains the business logic for user administration.
//
// Flag and role changes touch the user row only. Live sessions are not
// revoked: a deactivated or unapproved user is cut off at their next
// session check.
type Service interface {
	ListUsers(ctx context.Context) ([]auth.User, error)
	SetApproval(ctx context.Context, id string, approved bool) (*auth.User, error)
	SetActive(ctx context.Context, actorID, id string, active bool) (*auth.User, error)
	SetRole(ctx context.Context, actorID, id string, role string) (*auth.User, error)
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	users auth.UserRepository
}

// NewService creates a new admin service over the user repository.
func NewService(users auth.UserRepository) Service {
	return &service{users: users}
}

func (s *service) ListUsers(ctx context.Context) ([]auth.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		slog.Error("failed to list users", slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}
	if users == nil {
		users = []auth.User{}
	}
	return users, nil
}

func (s *service) SetApproval(ctx context.Context, id string, approved bool) (*auth.User, error) {
	if err := s.users.UpdateApproval(ctx, id, approved); err != nil {
		return nil, err
	}

	slog.Info("user approval changed",
		slog.String("user_id", id),
		slog.Bool("approved", approved))
	return s.users.FindByID(ctx, id)
}

func (s *service) SetActive(ctx context.Context, actorID, id string, active bool) (*auth.User, error) {
	if actorID == id && !active {
		return nil, apperror.NewBadRequest("you cannot deactivate your own account")
	}

	if err := s.users.UpdateActive(ctx, id, active); err != nil {
		return nil, err
	}

	slog.Info("user active flag changed",
		slog.String("user_id", id),
		slog.Bool("active", active))
	return s.users.FindByID(ctx, id)
}

func (s *service) SetRole(ctx context.Context, actorID, id string, role string) (*auth.User, error) {
	if role != auth.RoleAdmin && role != auth.RoleUser {
		return nil, apperror.NewValidation("role must be admin or user")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Demoting the last admin would lock everyone out of this panel.
	if user.IsAdmin() && role == auth.RoleUser {
		admins, err := s.users.CountAdmins(ctx)
		if err != nil {
			return nil, apperror.NewInternal(err)
		}
		if admins <= 1 {
			return nil, apperror.NewConflict("cannot demote the last admin")
		}
		if actorID == id {
			return nil, apperror.NewBadRequest("you cannot demote your own account")
		}
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}

	slog.Info("user role changed",
		slog.String("user_id", id),
		slog.String("role", role))
	user.Role = role
	return user, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		slog.Error("failed to load user stats", slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}

	stats := &Stats{TotalUsers: len(users)}
	for _, u := range users {
		if !u.IsApproved {
			stats.PendingApproval++
		}
		if u.IsActive {
			stats.ActiveUsers++
		}
		if u.IsAdmin() {
			stats.Admins++
		}
	}
	return stats, nil
}
