package cache

import (
	"context"
	"sync"

	"github.com/kylycht/flux/model"
	"github.com/kylycht/flux/service"
	"github.com/rs/zerolog/log"
)

// Snapshot is a point in time copy of the rate cache state
type Snapshot struct {
	Base    string          // base of the current table
	Rates   model.RateTable // current table, nil until the first success
	Updated string          // provider timestamp of the current table
	Loading bool            // a fetch is outstanding
	Loaded  bool            // at least one fetch succeeded
	Err     error           // initial load failure, cleared by a later success
}

// Rates keeps the latest rate table of the selected source
// currency. The previous table stays readable while a newer
// one is being fetched.
type Rates struct {
	lock         sync.RWMutex         // rw lock guards everything below
	rateProvider service.RateProvider // provider to fetch tables from
	base         string
	table        model.RateTable
	updated      string
	loading      bool
	loaded       bool
	err          error
	seq          uint64 // sequence of the most recent fetch
}

func New(rateProvider service.RateProvider) *Rates {
	return &Rates{rateProvider: rateProvider}
}

// Load performs the initial fetch. A failure is kept
// as a persistent error until a later fetch succeeds.
func (r *Rates) Load(ctx context.Context, base string) error {
	return r.fetch(ctx, base, true)
}

// Refresh fetches the table for base and replaces the current
// one on success. Failures keep the previous table and are only
// logged. Results of superseded fetches are discarded.
func (r *Rates) Refresh(ctx context.Context, base string) error {
	return r.fetch(ctx, base, false)
}

func (r *Rates) fetch(ctx context.Context, base string, initial bool) error {
	r.lock.Lock()
	r.seq++
	seq := r.seq
	r.loading = true
	r.lock.Unlock()

	log.Debug().Str("base", base).Uint64("seq", seq).Bool("initial", initial).Msg("fetching rates")

	quote, err := r.rateProvider.LatestRates(ctx, base)

	r.lock.Lock()
	defer r.lock.Unlock()

	if seq != r.seq {
		log.Debug().Str("base", base).Uint64("seq", seq).Msg("discarding superseded rates")
		return err
	}

	r.loading = false

	if err != nil {
		if initial {
			r.err = err
			log.Error().Err(err).Str("base", base).Msg("unable to load initial rates")
		} else {
			log.Warn().Err(err).Str("base", base).Msg("unable to refresh rates, keeping previous table")
		}
		return err
	}

	r.base = quote.Base
	if r.base == "" {
		r.base = base
	}
	r.table = quote.Rates
	r.updated = quote.Updated
	r.loaded = true
	r.err = nil

	return nil
}

// Rate returns the multiplier for code from the current table
func (r *Rates) Rate(code string) (float64, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.table.Rate(code)
}

// Snapshot returns a copy of the current state
func (r *Rates) Snapshot() Snapshot {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return Snapshot{
		Base:    r.base,
		Rates:   r.table,
		Updated: r.updated,
		Loading: r.loading,
		Loaded:  r.loaded,
		Err:     r.err,
	}
}
