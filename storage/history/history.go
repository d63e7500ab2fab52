// Package history keeps the bounded, deduplicated
// log of completed conversions.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kylycht/flux/model"
	"github.com/rs/zerolog/log"
)

// DefaultCapacity is the number of entries kept
const DefaultCapacity = 10

// Ledger holds recorded conversions, newest first.
// Every mutation rewrites the repository in full.
type Ledger struct {
	lock     sync.RWMutex
	repo     Repository
	capacity int
	entries  []model.HistoryEntry
}

// New reads the ledger once from repo. Missing or
// unreadable data results in an empty ledger.
func New(ctx context.Context, repo Repository, capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	l := &Ledger{repo: repo, capacity: capacity}

	entries, err := repo.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("unable to read history, starting empty")
		entries = nil
	}
	if len(entries) > capacity {
		entries = entries[:capacity]
	}
	l.entries = entries

	return l
}

// NewEntry builds an entry stamped with the wall clock time of now
func NewEntry(from, to, amountFrom, amountTo string, now time.Time) model.HistoryEntry {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	return model.HistoryEntry{
		ID:         id.String(),
		From:       from,
		To:         to,
		AmountFrom: amountFrom,
		AmountTo:   amountTo,
		RecordedAt: now.Format("15:04"),
		RecordedOn: now.Format(time.DateOnly),
	}
}

// Commit prepends entry unless it repeats the most recent
// conversion. It reports whether the ledger changed.
func (l *Ledger) Commit(ctx context.Context, entry model.HistoryEntry) bool {
	l.lock.Lock()
	defer l.lock.Unlock()

	if len(l.entries) > 0 && l.entries[0].SameConversion(entry) {
		return false
	}

	entries := make([]model.HistoryEntry, 0, l.capacity)
	entries = append(entries, entry)
	entries = append(entries, l.entries...)
	if len(entries) > l.capacity {
		entries = entries[:l.capacity]
	}
	l.entries = entries

	log.Debug().Str("id", entry.ID).Str("pair", entry.From+"/"+entry.To).Str("amount", entry.AmountFrom).Msg("history entry recorded")
	l.save(ctx)

	return true
}

// Clear removes every entry
func (l *Ledger) Clear(ctx context.Context) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.entries = nil
	l.save(ctx)
}

// Entries returns a copy of the ledger, newest first
func (l *Ledger) Entries() []model.HistoryEntry {
	l.lock.RLock()
	defer l.lock.RUnlock()

	out := make([]model.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Latest returns the most recent entry
func (l *Ledger) Latest() (model.HistoryEntry, bool) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	if len(l.entries) == 0 {
		return model.HistoryEntry{}, false
	}
	return l.entries[0], true
}

// Find looks an entry up by id
func (l *Ledger) Find(id string) (model.HistoryEntry, bool) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return model.HistoryEntry{}, false
}

// save must be called with the lock held
func (l *Ledger) save(ctx context.Context) {
	if err := l.repo.Save(ctx, l.entries); err != nil {
		log.Error().Err(err).Msg("unable to persist history")
	}
}
