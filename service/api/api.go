// Package api holds the HTTP plumbing shared by the rate provider clients.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kylycht/flux/service"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const userAgent = "flux-widget/1.0"

// Options tune a provider client
type Options struct {
	Timeout           time.Duration // per request timeout
	RequestsPerSecond float64       // provider rate limit
	Burst             int           // rate limiter burst
}

// Client issues rate limited JSON requests
// against a single provider base URL
type Client struct {
	baseURL     *url.URL      // Base URL for API requests
	httpClient  *http.Client  // HTTP client used to communicate with the API.
	rateLimiter *rate.Limiter // Rate limiter for the provider
}

func New(baseURL string, opts Options) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	return &Client{
		rateLimiter: rate.NewLimiter(limit, opts.Burst),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: roundTripperFn(
				func(req *http.Request) (*http.Response, error) {
					req.Header.Set("Accept", "application/json")
					req.Header.Set("User-Agent", userAgent)

					return http.DefaultTransport.RoundTrip(req)
				},
			),
		},
		baseURL: base,
	}, nil
}

// NewRequest builds a GET request for path relative to the base URL
func (c *Client) NewRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	u, err := c.baseURL.Parse(path)
	if err != nil {
		return nil, err
	}

	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
}

// Do sends req and decodes the JSON body into v.
// Non 200 answers are mapped onto the service sentinel errors.
func (c *Client) Do(ctx context.Context, req *http.Request, v interface{}) error {
	err := c.rateLimiter.Wait(ctx)
	if err != nil {
		return err
	}

	log.Debug().Str("url", req.URL.String()).Msg("fetching information from API")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return err
	}

	switch v := v.(type) {
	case nil:
	case io.Writer:
		_, err = io.Copy(v, resp.Body)
	default:
		decErr := json.NewDecoder(resp.Body).Decode(v)
		if decErr == io.EOF {
			decErr = nil // ignore EOF errors caused by empty response body
		}
		if decErr != nil {
			err = decErr
		}
	}

	return err
}

func statusError(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", service.ErrNotFound, code)
	case code >= 400 && code < 500:
		return fmt.Errorf("%w: status %d", service.ErrClient, code)
	case code >= 500:
		return fmt.Errorf("%w: status %d", service.ErrServer, code)
	default:
		return fmt.Errorf("%w: status %d", service.ErrUnknown, code)
	}
}

type roundTripperFn func(*http.Request) (*http.Response, error)

func (fn roundTripperFn) RoundTrip(r *http.Request) (*http.Response, error) {
	return fn(r)
}
