package recurring

import (
	"context"
	"sort"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/localstore"
)

const collection = "recurring_payments"

// localRepository implements Repository over the demo-mode file store.
type localRepository struct {
	store *localstore.Store
}

// NewLocalRepository creates the demo-mode recurring-payment repository.
func NewLocalRepository(store *localstore.Store) Repository {
	return &localRepository{store: store}
}

func (r *localRepository) Create(_ context.Context, p *Payment) error {
	return localstore.Insert(r.store, collection, *p)
}

func (r *localRepository) FindByID(_ context.Context, userID, id string) (*Payment, error) {
	p, ok, err := localstore.Find(r.store, collection, func(p Payment) bool {
		return p.ID == id && p.UserID == userID
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewNotFound("recurring payment not found")
	}
	return &p, nil
}

func (r *localRepository) List(_ context.Context, userID string) ([]Payment, error) {
	all, err := localstore.All[Payment](r.store, collection)
	if err != nil {
		return nil, err
	}

	var out []Payment
	for _, p := range all {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextDueDate.Before(out[j].NextDueDate) })
	return out, nil
}

func (r *localRepository) Update(_ context.Context, p *Payment) error {
	n, err := localstore.Update(r.store, collection,
		func(doc Payment) bool { return doc.ID == p.ID && doc.UserID == p.UserID },
		func(doc *Payment) { *doc = *p })
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("recurring payment not found")
	}
	return nil
}

func (r *localRepository) Delete(_ context.Context, userID, id string) error {
	n, err := localstore.Delete(r.store, collection, func(p Payment) bool {
		return p.ID == id && p.UserID == userID
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("recurring payment not found")
	}
	return nil
}
