package service

import (
	"context"
	"errors"

	"github.com/kylycht/flux/model"
)

var (
	ErrClient   = errors.New("client error")
	ErrNotFound = errors.New("not found")
	ErrServer   = errors.New("server error")
	ErrUnknown  = errors.New("unknown error")
)

// RateProvider interface describes
// methods for obtaining current exchange rates
type RateProvider interface {
	// LatestRates returns the current rate table
	// for the given base currency
	LatestRates(ctx context.Context, base string) (model.Quote, error)
}

// SeriesProvider interface describes
// methods for obtaining historical rates
type SeriesProvider interface {
	// RateSeries returns daily rates of `to` against `from`
	// over the last `days` days. A nil series with a nil error
	// means the provider has no data for the pair.
	RateSeries(ctx context.Context, from, to string, days int) (model.Series, error)
}

// NameProvider interface describes
// the static currency name dictionary
type NameProvider interface {
	// CurrencyNames returns code -> name
	CurrencyNames(ctx context.Context) (map[string]string, error)
}
