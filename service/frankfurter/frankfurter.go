// Package frankfurter fetches historical daily rates from a
// frankfurter.app compatible endpoint.
package frankfurter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kylycht/flux/model"
	"github.com/kylycht/flux/service"
	"github.com/kylycht/flux/service/api"
	"github.com/rs/zerolog/log"
)

const (
	BaseURL    string = "https://api.frankfurter.app/" // base URL of the history API
	dateLayout string = "2006-01-02"
)

type Response struct {
	Amount    float64                       `json:"amount"`
	Base      string                        `json:"base"`
	StartDate string                        `json:"start_date"`
	EndDate   string                        `json:"end_date"`
	Rates     map[string]map[string]float64 `json:"rates"`
}

type client struct {
	api *api.Client      // rate limited transport
	now func() time.Time // clock used to compute the date range
}

func New(baseURL string, opts api.Options) (service.SeriesProvider, error) {
	if baseURL == "" {
		baseURL = BaseURL
	}

	c, err := api.New(baseURL, opts)
	if err != nil {
		return nil, err
	}

	return &client{api: c, now: time.Now}, nil
}

// RateSeries implements service.SeriesProvider.
// GET /{start}..{end}?from=USD&to=EUR
func (c *client) RateSeries(ctx context.Context, from, to string, days int) (model.Series, error) {
	end := c.now().UTC()
	start := end.AddDate(0, 0, -days)

	path := fmt.Sprintf("%s..%s", start.Format(dateLayout), end.Format(dateLayout))
	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)

	req, err := c.api.NewRequest(ctx, path, query)
	if err != nil {
		return nil, err
	}

	r := &Response{}

	err = c.api.Do(ctx, req, r)
	if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrClient) {
		log.Debug().Str("pair", from+"/"+to).Err(err).Msg("no history for pair")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rate series for %s/%s: %w", from, to, err)
	}

	if len(r.Rates) == 0 {
		return nil, nil
	}

	return model.Series(r.Rates), nil
}
