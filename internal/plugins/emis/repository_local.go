package emis

import (
	"context"
	"sort"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/localstore"
)

const collection = "emis"

// localRepository implements Repository over the demo-mode file store.
type localRepository struct {
	store *localstore.Store
}

// NewLocalRepository creates the demo-mode EMI repository.
func NewLocalRepository(store *localstore.Store) Repository {
	return &localRepository{store: store}
}

func (r *localRepository) Create(_ context.Context, e *EMI) error {
	return localstore.Insert(r.store, collection, *e)
}

func (r *localRepository) FindByID(_ context.Context, userID, id string) (*EMI, error) {
	e, ok, err := localstore.Find(r.store, collection, func(e EMI) bool {
		return e.ID == id && e.UserID == userID
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewNotFound("emi not found")
	}
	return &e, nil
}

func (r *localRepository) List(_ context.Context, userID string) ([]EMI, error) {
	all, err := localstore.All[EMI](r.store, collection)
	if err != nil {
		return nil, err
	}

	var out []EMI
	for _, e := range all {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *localRepository) Update(_ context.Context, e *EMI) error {
	n, err := localstore.Update(r.store, collection,
		func(doc EMI) bool { return doc.ID == e.ID && doc.UserID == e.UserID },
		func(doc *EMI) { *doc = *e })
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("emi not found")
	}
	return nil
}

func (r *localRepository) Delete(_ context.Context, userID, id string) error {
	n, err := localstore.Delete(r.store, collection, func(e EMI) bool {
		return e.ID == id && e.UserID == userID
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("emi not found")
	}
	return nil
}

func (r *localRepository) CountUnsettled(_ context.Context, userID string) (int, error) {
	all, err := localstore.All[EMI](r.store, collection)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range all {
		if e.UserID == userID && !e.Settled() {
			count++
		}
	}
	return count, nil
}
