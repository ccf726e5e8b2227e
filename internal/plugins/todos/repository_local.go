package todos

import (
	"context"
	"sort"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/localstore"
)

const collection = "todos"

// localRepository implements Repository over the demo-mode file store.
type localRepository struct {
	store *localstore.Store
}

// NewLocalRepository creates the demo-mode todo repository.
func NewLocalRepository(store *localstore.Store) Repository {
	return &localRepository{store: store}
}

func (r *localRepository) Create(_ context.Context, t *Todo) error {
	return localstore.Insert(r.store, collection, *t)
}

func (r *localRepository) FindByID(_ context.Context, userID, id string) (*Todo, error) {
	t, ok, err := localstore.Find(r.store, collection, func(t Todo) bool {
		return t.ID == id && t.UserID == userID
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewNotFound("todo not found")
	}
	return &t, nil
}

func (r *localRepository) List(_ context.Context, userID string) ([]Todo, error) {
	all, err := localstore.All[Todo](r.store, collection)
	if err != nil {
		return nil, err
	}

	var out []Todo
	for _, t := range all {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *localRepository) Update(_ context.Context, t *Todo) error {
	n, err := localstore.Update(r.store, collection,
		func(doc Todo) bool { return doc.ID == t.ID && doc.UserID == t.UserID },
		func(doc *Todo) { *doc = *t })
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("todo not found")
	}
	return nil
}

func (r *localRepository) Delete(_ context.Context, userID, id string) error {
	n, err := localstore.Delete(r.store, collection, func(t Todo) bool {
		return t.ID == id && t.UserID == userID
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("todo not found")
	}
	return nil
}

func (r *localRepository) CountPending(_ context.Context, userID string) (int, error) {
	all, err := localstore.All[Todo](r.store, collection)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, t := range all {
		if t.UserID == userID && !t.Completed {
			count++
		}
	}
	return count, nil
}
