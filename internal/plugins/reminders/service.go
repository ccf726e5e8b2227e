package reminders

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finchley/tally/internal/apperror"
)

// Service contains the business logic for reminders.
type Service interface {
	Create(ctx context.Context, userID string, input CreateInput) (*Reminder, error)
	List(ctx context.Context, userID string) ([]Reminder, error)
	ListToday(ctx context.Context, userID string) ([]Reminder, error)
	Delete(ctx context.Context, userID, id string) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new reminder service.
func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, userID string, input CreateInput) (*Reminder, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.NewValidation("title is required")
	}
	if input.ReminderDate.IsZero() {
		return nil, apperror.NewValidation("reminder date is required")
	}

	reminder := &Reminder{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		ReminderDate: input.ReminderDate.UTC(),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.Create(ctx, reminder); err != nil {
		slog.Error("failed to create reminder",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}
	return reminder, nil
}

func (s *service) List(ctx context.Context, userID string) ([]Reminder, error) {
	reminders, err := s.repo.List(ctx, userID)
	if err != nil {
		slog.Error("failed to list reminders",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}
	if reminders == nil {
		reminders = []Reminder{}
	}
	return reminders, nil
}

// ListToday returns reminders falling on the current UTC day.
func (s *service) ListToday(ctx context.Context, userID string) ([]Reminder, error) {
	reminders, err := s.repo.ListOn(ctx, userID, s.now().UTC())
	if err != nil {
		slog.Error("failed to list today's reminders",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}
	if reminders == nil {
		reminders = []Reminder{}
	}
	return reminders, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
