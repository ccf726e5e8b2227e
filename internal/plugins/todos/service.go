package todos

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finchley/tally/internal/apperror"
)

// Service contains the business logic for todos.
type Service interface {
	Create(ctx context.Context, userID string, input CreateInput) (*Todo, error)
	List(ctx context.Context, userID string) ([]Todo, error)
	Update(ctx context.Context, userID, id string, input UpdateInput) (*Todo, error)
	Toggle(ctx context.Context, userID, id string) (*Todo, error)
	Delete(ctx context.Context, userID, id string) error
	CountPending(ctx context.Context, userID string) (int, error)
}

type service struct {
	repo Repository
}

// NewService creates a new todo service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID string, input CreateInput) (*Todo, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.NewValidation("title is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperror.NewValidation("priority must be low, medium, or high")
	}

	todo := &Todo{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Priority:    priority,
		DueDate:     input.DueDate,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, todo); err != nil {
		slog.Error("failed to create todo",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}
	return todo, nil
}

func (s *service) List(ctx context.Context, userID string) ([]Todo, error) {
	todos, err := s.repo.List(ctx, userID)
	if err != nil {
		slog.Error("failed to list todos",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, apperror.NewInternal(err)
	}
	if todos == nil {
		todos = []Todo{}
	}
	return todos, nil
}

func (s *service) Update(ctx context.Context, userID, id string, input UpdateInput) (*Todo, error) {
	todo, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperror.NewValidation("title is required")
		}
		todo.Title = title
	}
	if input.Description != nil {
		todo.Description = strings.TrimSpace(*input.Description)
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperror.NewValidation("priority must be low, medium, or high")
		}
		todo.Priority = *input.Priority
	}
	if input.DueDate != nil {
		todo.DueDate = input.DueDate
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
	}

	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Toggle flips the completed flag.
func (s *service) Toggle(ctx context.Context, userID, id string) (*Todo, error) {
	todo, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	todo.Completed = !todo.Completed
	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *service) CountPending(ctx context.Context, userID string) (int, error) {
	return s.repo.CountPending(ctx, userID)
}
