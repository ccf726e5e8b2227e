package reminders

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/localstore"
)

func newTestService(t *testing.T, now time.Time) Service {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "tally.json"))
	require.NoError(t, err)
	svc := NewService(NewLocalRepository(store)).(*service)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateReminderValidation(t *testing.T) {
	svc := newTestService(t, time.Now())
	ctx := context.Background()

	var appErr *apperror.AppError

	_, err := svc.Create(ctx, "user-1", CreateInput{Title: " ", ReminderDate: time.Now()})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "validation_error", appErr.Type)

	_, err = svc.Create(ctx, "user-1", CreateInput{Title: "dentist"})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "validation_error", appErr.Type)
}

func TestListOrdersByReminderDate(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", CreateInput{Title: "later", ReminderDate: now.AddDate(0, 0, 7)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", CreateInput{Title: "sooner", ReminderDate: now.AddDate(0, 0, 1)})
	require.NoError(t, err)

	got, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "sooner", got[0].Title)
	assert.Equal(t, "later", got[1].Title)
}

func TestListTodayBoundaries(t *testing.T) {
	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := context.Background()

	seed := []CreateInput{
		{Title: "early today", ReminderDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "late today", ReminderDate: time.Date(2026, 9, 1, 23, 59, 59, 0, time.UTC)},
		{Title: "yesterday", ReminderDate: time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)},
		{Title: "tomorrow", ReminderDate: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, input := range seed {
		_, err := svc.Create(ctx, "user-1", input)
		require.NoError(t, err)
	}

	got, err := svc.ListToday(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "early today", got[0].Title)
	assert.Equal(t, "late today", got[1].Title)
}

func TestDeleteReminderOwnerScoped(t *testing.T) {
	svc := newTestService(t, time.Now())
	ctx := context.Background()

	rem, err := svc.Create(ctx, "alice", CreateInput{Title: "mine", ReminderDate: time.Now()})
	require.NoError(t, err)

	err = svc.Delete(ctx, "bob", rem.ID)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "not_found", appErr.Type)

	require.NoError(t, svc.Delete(ctx, "alice", rem.ID))
}
