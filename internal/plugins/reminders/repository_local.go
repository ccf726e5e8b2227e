package reminders

import (
	"context"
	"sort"
	"time"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/localstore"
)

const collection = "reminders"

// localRepository implements Repository over the demo-mode file store.
type localRepository struct {
	store *localstore.Store
}

// NewLocalRepository creates the demo-mode reminder repository.
func NewLocalRepository(store *localstore.Store) Repository {
	return &localRepository{store: store}
}

func (r *localRepository) Create(_ context.Context, rem *Reminder) error {
	return localstore.Insert(r.store, collection, *rem)
}

func (r *localRepository) List(_ context.Context, userID string) ([]Reminder, error) {
	return r.filter(userID, func(Reminder) bool { return true })
}

func (r *localRepository) ListOn(_ context.Context, userID string, day time.Time) ([]Reminder, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	return r.filter(userID, func(rem Reminder) bool {
		return !rem.ReminderDate.Before(start) && rem.ReminderDate.Before(end)
	})
}

func (r *localRepository) filter(userID string, pred func(Reminder) bool) ([]Reminder, error) {
	all, err := localstore.All[Reminder](r.store, collection)
	if err != nil {
		return nil, err
	}

	var out []Reminder
	for _, rem := range all {
		if rem.UserID == userID && pred(rem) {
			out = append(out, rem)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReminderDate.Before(out[j].ReminderDate) })
	return out, nil
}

func (r *localRepository) Delete(_ context.Context, userID, id string) error {
	n, err := localstore.Delete(r.store, collection, func(rem Reminder) bool {
		return rem.ID == id && rem.UserID == userID
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("reminder not found")
	}
	return nil
}
