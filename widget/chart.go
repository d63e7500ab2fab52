package widget

import (
	"context"
	"sort"
	"time"

	"github.com/eapache/go-resiliency/breaker"
	"github.com/kylycht/flux/model"
	"github.com/kylycht/flux/service"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

const (
	breakerErrors  = 3
	breakerSuccess = 1
	breakerTimeout = 30 * time.Second
)

// chartLoader fetches the trend of a pair. Series are kept
// in memory per pair and end date, a breaker stops calls to
// a failing history endpoint for a while.
type chartLoader struct {
	seriesProvider service.SeriesProvider
	breaker        *breaker.Breaker
	series         *gocache.Cache
	days           int
	now            func() time.Time
}

func newChartLoader(seriesProvider service.SeriesProvider, days int, ttl time.Duration, now func() time.Time) *chartLoader {
	return &chartLoader{
		seriesProvider: seriesProvider,
		breaker:        breaker.New(breakerErrors, breakerSuccess, breakerTimeout),
		series:         gocache.New(ttl, 2*ttl),
		days:           days,
		now:            now,
	}
}

func (c *chartLoader) load(ctx context.Context, pair model.Pair) model.Chart {
	chart := model.Chart{Pair: pair, Status: model.ChartUnavailable}

	if c.seriesProvider == nil || pair.From == pair.To {
		return chart
	}

	key := pair.String() + "@" + c.now().UTC().Format(time.DateOnly)

	var series model.Series
	if cached, found := c.series.Get(key); found {
		series = cached.(model.Series)
	} else {
		err := c.breaker.Run(func() error {
			var err error
			series, err = c.seriesProvider.RateSeries(ctx, pair.From, pair.To, c.days)
			return err
		})
		if err != nil {
			log.Warn().Err(err).Str("pair", pair.String()).Msg("unable to load rate history")
			chart.Status = model.ChartFailed
			return chart
		}
		c.series.SetDefault(key, series)
	}

	chart.Points = points(series, pair.To)
	if len(chart.Points) > 0 {
		chart.Status = model.ChartReady
	}

	return chart
}

// points flattens a series into ascending date order,
// days without a rate for code are skipped
func points(series model.Series, code string) []model.RatePoint {
	out := make([]model.RatePoint, 0, len(series))
	for date, rates := range series {
		rate, ok := rates[code]
		if !ok {
			continue
		}
		out = append(out, model.RatePoint{Date: date, Rate: rate})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})

	return out
}
