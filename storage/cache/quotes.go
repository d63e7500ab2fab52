package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/kylycht/flux/model"
	"github.com/kylycht/flux/service"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// Quotes is a TTL cache of rate tables keyed by base
// currency, used for stateless one-off conversions
type Quotes struct {
	rateProvider service.RateProvider
	store        *gocache.Cache
}

func NewQuotes(rateProvider service.RateProvider, ttl time.Duration) *Quotes {
	return &Quotes{
		rateProvider: rateProvider,
		store:        gocache.New(ttl, 2*ttl),
	}
}

// Rate returns the from -> to multiplier and the
// provider timestamp of the table it was taken from
func (q *Quotes) Rate(ctx context.Context, from, to string) (float64, string, error) {
	from = model.NormalizeCode(from)
	to = model.NormalizeCode(to)

	if !model.ValidCode(from) || !model.ValidCode(to) {
		return 0, "", fmt.Errorf("%w: invalid conversion for pair: %s/%s", service.ErrClient, from, to)
	}

	quote, err := q.quote(ctx, from)
	if err != nil {
		return 0, "", err
	}

	rate, ok := quote.Rates.Rate(to)
	if !ok {
		return 0, "", fmt.Errorf("%w: invalid conversion for pair: %s/%s", service.ErrNotFound, from, to)
	}

	return rate, quote.Updated, nil
}

func (q *Quotes) quote(ctx context.Context, base string) (model.Quote, error) {
	if cached, found := q.store.Get(base); found {
		return cached.(model.Quote), nil
	}

	quote, err := q.rateProvider.LatestRates(ctx, base)
	if err != nil {
		return model.Quote{}, err
	}

	log.Debug().Str("base", base).Str("updated", quote.Updated).Msg("caching quote")
	q.store.SetDefault(base, quote)

	return quote, nil
}
