package expenses

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finchley/tally/internal/apperror"
)

// Service contains the business logic for expense tracking.
type Service interface {
	Create(ctx context.Context, userID string, input CreateInput) (*Expense, error)
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]Expense, error)
	Delete(ctx context.Context, userID, id string) error
}

type service struct {
	repo Repository
}

// NewService creates a new expense service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID string, input CreateInput) (*Expense, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewValidation("amount must be greater than zero")
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, apperror.NewValidation("category is required")
	}

	expense := &Expense{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      input.Amount,
		Category:    category,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, expense); err != nil {
		slog.Error("failed to create expense",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}

	slog.Info("expense recorded",
		slog.String("user_id", userID),
		slog.String("category", expense.Category))
	return expense, nil
}

func (s *service) ListRange(ctx context.Context, userID string, from, to time.Time) ([]Expense, error) {
	expenses, err := s.repo.ListRange(ctx, userID, from, to)
	if err != nil {
		slog.Error("failed to list expenses",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}
	if expenses == nil {
		expenses = []Expense{}
	}
	return expenses, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	slog.Info("expense deleted",
		slog.String("user_id", userID),
		slog.String("expense_id", id))
	return nil
}
