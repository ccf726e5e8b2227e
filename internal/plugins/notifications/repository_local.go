package notifications

import (
	"context"

	"github.com/finchley/tally/internal/apperror"
	"github.com/finchley/tally/internal/localstore"
)

const collection = "notification_settings"

// localRepository implements Repository over the demo-mode file store.
type localRepository struct {
	store *localstore.Store
}

// NewLocalRepository creates the demo-mode notification-settings repository.
func NewLocalRepository(store *localstore.Store) Repository {
	return &localRepository{store: store}
}

func (r *localRepository) Get(_ context.Context, userID string) (*Settings, error) {
	s, ok, err := localstore.Find(r.store, collection, func(s Settings) bool {
		return s.UserID == userID
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewNotFound("notification settings not found")
	}
	return &s, nil
}

func (r *localRepository) Save(_ context.Context, s *Settings) error {
	n, err := localstore.Update(r.store, collection,
		func(doc Settings) bool { return doc.UserID == s.UserID },
		func(doc *Settings) { s.ID = doc.ID; *doc = *s })
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return localstore.Insert(r.store, collection, *s)
}
