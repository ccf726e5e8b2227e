package recurring

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finchley/tally/internal/apperror"
)

// Service contains the business logic for recurring payments.
type Service interface {
	Create(ctx context.Context, userID string, input CreateInput) (*Payment, error)
	List(ctx context.Context, userID string) ([]Payment, error)
	Update(ctx context.Context, userID, id string, input UpdateInput) (*Payment, error)
	MarkPaid(ctx context.Context, userID, id string) (*Payment, error)
	Delete(ctx context.Context, userID, id string) error
	CountActive(ctx context.Context, userID string) (int, error)
}

type service struct {
	repo Repository
}

// NewService creates a new recurring-payment service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID string, input CreateInput) (*Payment, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.NewValidation("title is required")
	}
	if input.Amount <= 0 {
		return nil, apperror.NewValidation("amount must be greater than zero")
	}
	if !input.Frequency.Valid() {
		return nil, apperror.NewValidation("frequency must be daily, weekly, monthly, or yearly")
	}
	if input.NextDueDate.IsZero() {
		return nil, apperror.NewValidation("next due date is required")
	}

	payment := &Payment{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Amount:      input.Amount,
		Frequency:   input.Frequency,
		NextDueDate: input.NextDueDate.UTC(),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		slog.Error("failed to create recurring payment",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}
	return payment, nil
}

func (s *service) List(ctx context.Context, userID string) ([]Payment, error) {
	payments, err := s.repo.List(ctx, userID)
	if err != nil {
		slog.Error("failed to list recurring payments",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}
	if payments == nil {
		payments = []Payment{}
	}
	return payments, nil
}

func (s *service) Update(ctx context.Context, userID, id string, input UpdateInput) (*Payment, error) {
	payment, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperror.NewValidation("title is required")
		}
		payment.Title = title
	}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			return nil, apperror.NewValidation("amount must be greater than zero")
		}
		payment.Amount = *input.Amount
	}
	if input.Frequency != nil {
		if !input.Frequency.Valid() {
			return nil, apperror.NewValidation("frequency must be daily, weekly, monthly, or yearly")
		}
		payment.Frequency = *input.Frequency
	}
	if input.NextDueDate != nil {
		payment.NextDueDate = input.NextDueDate.UTC()
	}

	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// MarkPaid advances the payment's next due date by one frequency interval.
func (s *service) MarkPaid(ctx context.Context, userID, id string) (*Payment, error) {
	payment, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	payment.NextDueDate = payment.Frequency.Next(payment.NextDueDate)
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, err
	}

	slog.Info("recurring payment marked paid",
		slog.String("user_id", userID),
		slog.String("payment_id", id),
		slog.Time("next_due_date", payment.NextDueDate))
	return payment, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// CountActive reports how many recurring payments the user has. Every
// stored payment is active; the count feeds the dashboard stats.
func (s *service) CountActive(ctx context.Context, userID string) (int, error) {
	payments, err := s.repo.List(ctx, userID)
	if err != nil {
		return 0, apperror.NewInternal(err)
	}
	return len(payments), nil
}
