package expenses

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/localstore"
)

// mockRepo implements Repository for testing.
type mockRepo struct {
	createFn    func(ctx context.Context, e *Expense) error
	listRangeFn func(ctx context.Context, userID string, from, to time.Time) ([]Expense, error)
	deleteFn    func(ctx context.Context, userID, id string) error
}

func (m *mockRepo) Create(ctx context.Context, e *Expense) error {
	if m.createFn != nil {
		return m.createFn(ctx, e)
	}
	return nil
}

func (m *mockRepo) ListRange(ctx context.Context, userID string, from, to time.Time) ([]Expense, error) {
	if m.listRangeFn != nil {
		return m.listRangeFn(ctx, userID, from, to)
	}
	return nil, nil
}

func (m *mockRepo) Delete(ctx context.Context, userID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return nil
}

func TestCreateExpense(t *testing.T) {
	var stored *Expense
	svc := NewService(&mockRepo{
		createFn: func(_ context.Context, e *Expense) error {
			stored = e
			return nil
		},
	})

	expense, err := svc.Create(context.Background(), "user-1", CreateInput{
		Amount:      42.50,
		Category:    "  groceries ",
		Description: " weekly shop ",
	})
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.NotEmpty(t, expense.ID)
	assert.Equal(t, "user-1", expense.UserID)
	assert.Equal(t, 42.50, expense.Amount)
	assert.Equal(t, "groceries", expense.Category, "category should be trimmed")
	assert.Equal(t, "weekly shop", expense.Description)
	assert.False(t, expense.CreatedAt.IsZero())
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := NewService(&mockRepo{
		createFn: func(_ context.Context, _ *Expense) error {
			t.Fatal("repository should not be called for invalid input")
			return nil
		},
	})

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"zero amount", CreateInput{Amount: 0, Category: "food"}},
		{"negative amount", CreateInput{Amount: -5, Category: "food"}},
		{"missing category", CreateInput{Amount: 10, Category: "  "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-1", tc.input)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "validation_error", appErr.Type)
		})
	}
}

func TestCreateExpenseRepositoryFailure(t *testing.T) {
	svc := NewService(&mockRepo{
		createFn: func(_ context.Context, _ *Expense) error {
			return errors.New("connection refused")
		},
	})

	_, err := svc.Create(context.Background(), "user-1", CreateInput{Amount: 10, Category: "food"})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "internal_error", appErr.Type)
	assert.NotContains(t, appErr.Message, "connection refused")
}

func TestListRangeReturnsEmptySlice(t *testing.T) {
	svc := NewService(&mockRepo{})

	expenses, err := svc.ListRange(context.Background(), "user-1", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.NotNil(t, expenses, "no expenses should encode as [] not null")
	assert.Empty(t, expenses)
}

func TestLocalRepositoryRangeAndOwnership(t *testing.T) {
	store, err := localstore.Open(filepath.Join(t.TempDir(), "tally.json"))
	require.NoError(t, err)
	repo := NewLocalRepository(store)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seed := []Expense{
		{ID: "e1", UserID: "alice", Amount: 10, Category: "food", CreatedAt: base},
		{ID: "e2", UserID: "alice", Amount: 20, Category: "rent", CreatedAt: base.AddDate(0, 0, 5)},
		{ID: "e3", UserID: "alice", Amount: 30, Category: "fuel", CreatedAt: base.AddDate(0, 0, 10)},
		{ID: "e4", UserID: "bob", Amount: 99, Category: "food", CreatedAt: base.AddDate(0, 0, 5)},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	t.Run("unbounded list is newest first and owner scoped", func(t *testing.T) {
		got, err := repo.ListRange(ctx, "alice", time.Time{}, time.Time{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "e3", got[0].ID)
		assert.Equal(t, "e1", got[2].ID)
	})

	t.Run("range is inclusive of from and exclusive of to", func(t *testing.T) {
		got, err := repo.ListRange(ctx, "alice", base.AddDate(0, 0, 5), base.AddDate(0, 0, 10))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "e2", got[0].ID)
	})

	t.Run("delete refuses another user's expense", func(t *testing.T) {
		err := repo.Delete(ctx, "alice", "e4")
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "not_found", appErr.Type)

		// Bob's record must still be there.
		got, err := repo.ListRange(ctx, "bob", time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("delete removes own expense", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "alice", "e2"))
		got, err := repo.ListRange(ctx, "alice", time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}
