package storage

import (
	"context"
)

// Keys of the persisted widget state
const (
	HistoryKey = "history" // serialized history ledger
	ThemeKey   = "theme"   // "dark" or "light"
)

// Store interface describes the flat
// key-value store the widget state is persisted into
type Store interface {
	// Get returns the value stored under key,
	// ok is false when nothing is stored
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the value stored under key
	Set(ctx context.Context, key, value string) error

	// Close releases the underlying resources
	Close() error
}
