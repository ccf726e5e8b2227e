package emis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finchley/tally/internal/apperror"
)

// Service contains the business logic for EMIs.
type Service interface {
	Create(ctx context.Context, userID string, input CreateInput) (*EMI, error)
	List(ctx context.Context, userID string) ([]EMI, error)
	Update(ctx context.Context, userID, id string, input UpdateInput) (*EMI, error)
	RecordPayment(ctx context.Context, userID, id string) (*EMI, error)
	Delete(ctx context.Context, userID, id string) error
	CountUnsettled(ctx context.Context, userID string) (int, error)
}

type service struct {
	repo Repository
}

// NewService creates a new EMI service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID string, input CreateInput) (*EMI, error) {
	loanName := strings.TrimSpace(input.LoanName)
	if loanName == "" {
		return nil, apperror.NewValidation("loan name is required")
	}
	if input.TotalAmount <= 0 {
		return nil, apperror.NewValidation("total amount must be greater than zero")
	}
	if input.MonthlyPayment <= 0 {
		return nil, apperror.NewValidation("monthly payment must be greater than zero")
	}
	if input.PaidAmount < 0 || input.PaidAmount > input.TotalAmount {
		return nil, apperror.NewValidation("paid amount must be between zero and the total amount")
	}

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = time.Now().UTC()
	}

	emi := &EMI{
		ID:             uuid.NewString(),
		UserID:         userID,
		LoanName:       loanName,
		TotalAmount:    input.TotalAmount,
		MonthlyPayment: input.MonthlyPayment,
		PaidAmount:     input.PaidAmount,
		StartDate:      startDate.UTC(),
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, emi); err != nil {
		slog.Error("failed to create emi",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}
	return emi, nil
}

func (s *service) List(ctx context.Context, userID string) ([]EMI, error) {
	list, err := s.repo.List(ctx, userID)
	if err != nil {
		slog.Error("failed to list emis",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}
	if list == nil {
		list = []EMI{}
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, userID, id string, input UpdateInput) (*EMI, error) {
	emi, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.LoanName != nil {
		loanName := strings.TrimSpace(*input.LoanName)
		if loanName == "" {
			return nil, apperror.NewValidation("loan name is required")
		}
		emi.LoanName = loanName
	}
	if input.TotalAmount != nil {
		if *input.TotalAmount <= 0 {
			return nil, apperror.NewValidation("total amount must be greater than zero")
		}
		emi.TotalAmount = *input.TotalAmount
	}
	if input.MonthlyPayment != nil {
		if *input.MonthlyPayment <= 0 {
			return nil, apperror.NewValidation("monthly payment must be greater than zero")
		}
		emi.MonthlyPayment = *input.MonthlyPayment
	}
	if input.PaidAmount != nil {
		if *input.PaidAmount < 0 {
			return nil, apperror.NewValidation("paid amount cannot be negative")
		}
		emi.PaidAmount = *input.PaidAmount
	}
	if emi.PaidAmount > emi.TotalAmount {
		return nil, apperror.NewValidation("paid amount cannot exceed the total amount")
	}

	if err := s.repo.Update(ctx, emi); err != nil {
		return nil, err
	}
	return emi, nil
}

// RecordPayment adds one monthly payment to the paid amount, capped at
// the loan total. Recording a payment on a settled loan is a conflict.
func (s *service) RecordPayment(ctx context.Context, userID, id string) (*EMI, error) {
	emi, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if emi.Settled() {
		return nil, apperror.NewConflict("loan is already fully paid")
	}

	emi.PaidAmount += emi.MonthlyPayment
	if emi.PaidAmount > emi.TotalAmount {
		emi.PaidAmount = emi.TotalAmount
	}

	if err := s.repo.Update(ctx, emi); err != nil {
		return nil, err
	}

	slog.Info("emi payment recorded",
		slog.String("user_id", userID),
		slog.String("emi_id", id),
		slog.Float64("paid_amount", emi.PaidAmount))
	return emi, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *service) CountUnsettled(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnsettled(ctx, userID)
}
