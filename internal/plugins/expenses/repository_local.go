package expenses

import (
	"context"
	"sort"
	"time"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/localstore"
)

const collection = "expenses"

// localRepository implements Repository over the demo-mode file store.
type localRepository struct {
	store *localstore.Store
}

// NewLocalRepository creates the demo-mode expense repository.
func NewLocalRepository(store *localstore.Store) Repository {
	return &localRepository{store: store}
}

func (r *localRepository) Create(_ context.Context, e *Expense) error {
	return localstore.Insert(r.store, collection, *e)
}

func (r *localRepository) ListRange(_ context.Context, userID string, from, to time.Time) ([]Expense, error) {
	all, err := localstore.All[Expense](r.store, collection)
	if err != nil {
		return nil, err
	}

	var out []Expense
	for _, e := range all {
		if e.UserID != userID {
			continue
		}
		if !from.IsZero() && e.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !e.CreatedAt.Before(to) {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *localRepository) Delete(_ context.Context, userID, id string) error {
	n, err := localstore.Delete(r.store, collection, func(e Expense) bool {
		return e.ID == id && e.UserID == userID
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("expense not found")
	}
	return nil
}
