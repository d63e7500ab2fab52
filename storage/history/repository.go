package history

import (
	"context"
	"encoding/json"

	"github.com/kylycht/flux/model"
	"github.com/kylycht/flux/storage"
)

// Repository interface describes how
// the ledger is persisted as a whole
type Repository interface {
	// Load returns the stored entries, newest first
	Load(ctx context.Context) ([]model.HistoryEntry, error)
	// Save replaces the stored entries
	Save(ctx context.Context, entries []model.HistoryEntry) error
}

type kvRepository struct {
	store storage.Store
	key   string
}

// NewRepository returns a repository keeping the
// ledger as a JSON array under storage.HistoryKey
func NewRepository(store storage.Store) Repository {
	return &kvRepository{store: store, key: storage.HistoryKey}
}

// Load implements Repository.
func (r *kvRepository) Load(ctx context.Context) ([]model.HistoryEntry, error) {
	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil || !ok {
		return nil, err
	}

	var entries []model.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// Save implements Repository.
func (r *kvRepository) Save(ctx context.Context, entries []model.HistoryEntry) error {
	if entries == nil {
		entries = []model.HistoryEntry{}
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	return r.store.Set(ctx, r.key, string(raw))
}
