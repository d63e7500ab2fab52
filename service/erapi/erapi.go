// Package erapi fetches the latest rate tables from an
// open.er-api.com compatible endpoint.
package erapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"github.com/kylycht/flux/model"
	"github.com/kylycht/flux/service"
	"github.com/kylycht/flux/service/api"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	BaseURL string = "https://open.er-api.com/v6/latest/" // base URL of the live rates API
)

type Response struct {
	Result    string             `json:"result"`
	BaseCode  string             `json:"base_code"`
	Updated   string             `json:"time_last_update_utc"`
	Rates     map[string]float64 `json:"rates"`
	ErrorType string             `json:"error-type"`
}

// Config of the live rates client
type Config struct {
	URL     string
	Options api.Options
	Retries int           // attempts after the first failure
	Backoff time.Duration // initial retry delay, doubled on every attempt
}

type client struct {
	api     *api.Client        // rate limited transport
	retrier *retrier.Retrier   // retries transient failures
	group   singleflight.Group // collapses concurrent lookups of the same base
}

func New(cfg Config) (service.RateProvider, error) {
	if cfg.URL == "" {
		cfg.URL = BaseURL
	}

	c, err := api.New(cfg.URL, cfg.Options)
	if err != nil {
		return nil, err
	}

	if cfg.Backoff <= 0 {
		cfg.Backoff = 200 * time.Millisecond
	}

	return &client{
		api:     c,
		retrier: retrier.New(retrier.ExponentialBackoff(cfg.Retries, cfg.Backoff), transient{}),
	}, nil
}

// LatestRates implements service.RateProvider.
// GET /{base}
func (c *client) LatestRates(ctx context.Context, base string) (model.Quote, error) {
	v, err, shared := c.group.Do(base, func() (interface{}, error) {
		var quote model.Quote
		err := c.retrier.RunCtx(ctx, func(ctx context.Context) error {
			var err error
			quote, err = c.fetch(ctx, base)
			return err
		})
		return quote, err
	})
	if err != nil {
		return model.Quote{}, fmt.Errorf("latest rates for %s: %w", base, err)
	}

	log.Debug().Str("base", base).Bool("shared", shared).Msg("fetched latest rates")

	return v.(model.Quote), nil
}

func (c *client) fetch(ctx context.Context, base string) (model.Quote, error) {
	req, err := c.api.NewRequest(ctx, url.PathEscape(base), nil)
	if err != nil {
		return model.Quote{}, err
	}

	r := &Response{}

	if err := c.api.Do(ctx, req, r); err != nil {
		return model.Quote{}, err
	}

	if r.Result != "" && r.Result != "success" {
		return model.Quote{}, fmt.Errorf("%w: %s", service.ErrClient, r.ErrorType)
	}

	if r.BaseCode == "" {
		r.BaseCode = base
	}

	return model.Quote{
		Base:    r.BaseCode,
		Updated: r.Updated,
		Rates:   model.RateTable(r.Rates),
	}, nil
}

// transient retries everything but client side errors
type transient struct{}

func (transient) Classify(err error) retrier.Action {
	switch {
	case err == nil:
		return retrier.Succeed
	case errors.Is(err, service.ErrClient), errors.Is(err, service.ErrNotFound),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return retrier.Fail
	default:
		return retrier.Retry
	}
}
