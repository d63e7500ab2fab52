// Package widget holds the conversion state machine: the selected
// pair, the anchored amount, rates, chart and the history recorder.
package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kylycht/flux/converter"
	"github.com/kylycht/flux/model"
	"github.com/kylycht/flux/service"
	"github.com/kylycht/flux/service/catalog"
	"github.com/kylycht/flux/storage/cache"
	"github.com/kylycht/flux/storage/history"
	"github.com/kylycht/flux/storage/prefs"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUnknownEntry = errors.New("unknown history entry")
)

// unavailableMessage is shown while the initial load has failed
const unavailableMessage = "Service temporarily unavailable."

// Config of a widget
type Config struct {
	From        string        // initial source currency
	To          string        // initial target currency
	Amount      string        // initial amount text
	QuietPeriod time.Duration // recorder debounce
	SwapDelay   time.Duration // delay before the pair is exchanged
	SwapSettle  time.Duration // delay before the swap flag clears
	ChartDays   int           // length of the trend
	ChartTTL    time.Duration // how long a trend is cached
}

// DefaultConfig returns the stock widget settings
func DefaultConfig() Config {
	return Config{
		From:        "USD",
		To:          "KZT",
		Amount:      "100",
		QuietPeriod: 2 * time.Second,
		SwapDelay:   150 * time.Millisecond,
		SwapSettle:  50 * time.Millisecond,
		ChartDays:   30,
		ChartTTL:    time.Hour,
	}
}

// Option customizes a widget
type Option func(*Widget)

// WithScheduler replaces the timer source
func WithScheduler(s Scheduler) Option {
	return func(w *Widget) { w.scheduler = s }
}

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(w *Widget) { w.now = now }
}

// View is a snapshot of everything a presentation layer renders
type View struct {
	AmountText  string       `json:"amountText"`
	Anchor      model.Anchor `json:"anchor"`
	FromAmount  string       `json:"fromAmount"`
	ToAmount    string       `json:"toAmount"`
	Pair        model.Pair   `json:"pair"`
	FromName    string       `json:"fromName,omitempty"`
	ToName      string       `json:"toName,omitempty"`
	Rate        *float64     `json:"rate,omitempty"` // one unit of From in To
	LastUpdated string       `json:"lastUpdated"`
	Loading     bool         `json:"loading"`  // initial load outstanding
	Updating    bool         `json:"updating"` // background refresh outstanding
	Swapping    bool         `json:"swapping"`
	Error       string       `json:"error,omitempty"`
	Theme       model.Theme  `json:"theme"`
}

type Widget struct {
	lock      sync.Mutex
	cfg       Config
	rates     *cache.Rates
	names     service.NameProvider
	charts    *chartLoader
	ledger    *history.Ledger
	prefs     *prefs.Prefs
	scheduler Scheduler
	now       func() time.Time

	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup // outstanding fetches

	pair         model.Pair
	amountText   string
	anchor       model.Anchor
	options      []model.Currency
	namesLoaded  bool
	initializing bool
	startErr     error
	closed       bool

	chart    model.Chart
	chartSeq uint64

	swapPending int
	swapTimers  []Timer

	rec recorder
}

// New builds a widget. Start must be called to perform the initial load.
func New(cfg Config, rateProvider service.RateProvider, seriesProvider service.SeriesProvider,
	names service.NameProvider, ledger *history.Ledger, preferences *prefs.Prefs, opts ...Option) *Widget {
	def := DefaultConfig()
	if cfg.From == "" {
		cfg.From = def.From
	}
	if cfg.To == "" {
		cfg.To = def.To
	}
	if cfg.QuietPeriod <= 0 {
		cfg.QuietPeriod = def.QuietPeriod
	}
	if cfg.SwapDelay <= 0 {
		cfg.SwapDelay = def.SwapDelay
	}
	if cfg.SwapSettle <= 0 {
		cfg.SwapSettle = def.SwapSettle
	}
	if cfg.ChartDays <= 0 {
		cfg.ChartDays = def.ChartDays
	}
	if cfg.ChartTTL <= 0 {
		cfg.ChartTTL = def.ChartTTL
	}

	w := &Widget{
		cfg:          cfg,
		rates:        cache.New(rateProvider),
		names:        names,
		ledger:       ledger,
		prefs:        preferences,
		scheduler:    clockScheduler{},
		now:          time.Now,
		pair:         model.Pair{From: model.NormalizeCode(cfg.From), To: model.NormalizeCode(cfg.To)},
		amountText:   cfg.Amount,
		anchor:       model.Source,
		initializing: true,
	}

	for _, opt := range opts {
		opt(w)
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.charts = newChartLoader(seriesProvider, cfg.ChartDays, cfg.ChartTTL, w.now)
	w.chart = model.Chart{Pair: w.pair, Status: model.ChartIdle}
	w.rec.quiet = cfg.QuietPeriod

	return w
}

// Start runs the initial load in the background: the currency
// names and the rates of the source currency are fetched together.
func (w *Widget) Start() {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.closed {
		return
	}

	base := w.pair.From
	w.reloadChartLocked()
	w.observeLocked()

	w.inflight.Add(1)
	go func() {
		defer w.inflight.Done()
		w.startup(base)
	}()
}

func (w *Widget) startup(base string) {
	var names map[string]string

	g, ctx := errgroup.WithContext(w.ctx)
	g.Go(func() error {
		var err error
		names, err = w.names.CurrencyNames(ctx)
		return err
	})
	g.Go(func() error {
		return w.rates.Load(ctx, base)
	})
	err := g.Wait()

	w.lock.Lock()
	defer w.lock.Unlock()

	w.initializing = false

	if err != nil {
		w.startErr = err
		log.Error().Err(err).Str("base", base).Msg("initial load failed")
		return
	}

	w.options = catalog.Options(names)
	w.namesLoaded = true
	log.Debug().Int("currencies", len(w.options)).Str("base", base).Msg("widget ready")

	if w.pair.From != base {
		w.refreshLocked()
	}
	w.observeLocked()
}

// Wait blocks until every outstanding fetch has completed
func (w *Widget) Wait() {
	w.inflight.Wait()
}

// Close stops pending timers, cancels outstanding
// fetches and waits for them to return
func (w *Widget) Close() {
	w.lock.Lock()
	w.closed = true
	if w.rec.timer != nil {
		w.rec.timer.Stop()
	}
	for _, t := range w.swapTimers {
		t.Stop()
	}
	w.swapTimers = nil
	w.lock.Unlock()

	w.cancel()
	w.inflight.Wait()
}

// SetAmount stores text verbatim as the amount of the given side
// and makes that side authoritative
func (w *Widget) SetAmount(anchor model.Anchor, text string) error {
	if anchor != model.Source && anchor != model.Target {
		return fmt.Errorf("%w: unknown side %q", ErrValidation, anchor)
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	w.amountText = text
	w.anchor = anchor
	w.observeLocked()

	return nil
}

// SetFrom selects the source currency and refreshes the rates
func (w *Widget) SetFrom(code string) error {
	return w.setCurrency(model.Source, code)
}

// SetTo selects the target currency
func (w *Widget) SetTo(code string) error {
	return w.setCurrency(model.Target, code)
}

func (w *Widget) setCurrency(side model.Anchor, code string) error {
	code = model.NormalizeCode(code)
	if !model.ValidCode(code) {
		return fmt.Errorf("%w: invalid currency code %q", ErrValidation, code)
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	if !w.knownLocked(code) {
		return fmt.Errorf("%w: unsupported currency %q", ErrValidation, code)
	}

	pair := w.pair
	if side == model.Source {
		pair.From = code
	} else {
		pair.To = code
	}
	w.applyPairLocked(pair)

	return nil
}

// Swap exchanges source and target after SwapDelay and makes the
// source side authoritative. The swapping flag is cosmetic only.
func (w *Widget) Swap() {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.closed {
		return
	}

	w.swapPending++
	t := w.scheduler.AfterFunc(w.cfg.SwapDelay, w.exchangePair)
	w.swapTimers = append(w.swapTimers, t)
}

func (w *Widget) exchangePair() {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.closed {
		return
	}

	w.anchor = model.Source
	w.applyPairLocked(w.pair.Swap())

	t := w.scheduler.AfterFunc(w.cfg.SwapSettle, w.settleSwap)
	w.swapTimers = append(w.swapTimers, t)
}

func (w *Widget) settleSwap() {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.closed || w.swapPending == 0 {
		return
	}

	w.swapPending--
	if w.swapPending == 0 {
		w.swapTimers = nil
	}
}

// Restore re-seeds the pair and source amount from a history entry
func (w *Widget) Restore(id string) (model.HistoryEntry, error) {
	entry, ok := w.ledger.Find(id)
	if !ok {
		return model.HistoryEntry{}, fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}

	pair := model.Pair{From: model.NormalizeCode(entry.From), To: model.NormalizeCode(entry.To)}
	if !model.ValidCode(pair.From) || !model.ValidCode(pair.To) {
		return model.HistoryEntry{}, fmt.Errorf("%w: entry %s has invalid pair %q/%q", ErrValidation, id, entry.From, entry.To)
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	w.amountText = converter.StripGrouping(entry.AmountFrom)
	w.anchor = model.Source
	w.applyPairLocked(pair)

	return entry, nil
}

// History returns the recorded conversions, newest first
func (w *Widget) History() []model.HistoryEntry {
	return w.ledger.Entries()
}

// ClearHistory empties the ledger
func (w *Widget) ClearHistory() {
	w.ledger.Clear(w.ctx)
}

// Theme returns the persisted theme
func (w *Widget) Theme() model.Theme {
	return w.prefs.Theme(w.ctx)
}

// ToggleTheme flips and persists the theme
func (w *Widget) ToggleTheme() model.Theme {
	return w.prefs.ToggleTheme(w.ctx)
}

// Options returns the selectable currencies, empty
// until the initial load succeeded
func (w *Widget) Options() []model.Currency {
	w.lock.Lock()
	defer w.lock.Unlock()

	out := make([]model.Currency, len(w.options))
	copy(out, w.options)
	return out
}

// Chart returns the trend of the current pair
func (w *Widget) Chart() model.Chart {
	w.lock.Lock()
	defer w.lock.Unlock()

	chart := w.chart
	chart.Points = append([]model.RatePoint(nil), w.chart.Points...)
	return chart
}

// RevalidateRates refreshes the rates of the current source in
// the background. It does nothing before the initial load finished.
func (w *Widget) RevalidateRates() {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.closed || w.initializing {
		return
	}

	w.refreshLocked()
}

// View returns the current state with the derived amount computed
// from the amount text, the anchor and the current rate
func (w *Widget) View() View {
	snapshot := w.rates.Snapshot()
	theme := w.Theme()

	w.lock.Lock()
	defer w.lock.Unlock()

	rate, known := snapshot.Rates.Rate(w.pair.To)
	amounts := converter.Convert(w.amountText, w.anchor, rate, known)

	v := View{
		AmountText:  w.amountText,
		Anchor:      w.anchor,
		FromAmount:  amounts.From,
		ToAmount:    amounts.To,
		Pair:        w.pair,
		FromName:    catalog.Name(w.options, w.pair.From),
		ToName:      catalog.Name(w.options, w.pair.To),
		LastUpdated: lastUpdated(snapshot.Updated),
		Loading:     w.initializing,
		Updating:    snapshot.Loading && !w.initializing,
		Swapping:    w.swapPending > 0,
		Theme:       theme,
	}

	if known {
		v.Rate = &rate
	}

	if w.startErr != nil || snapshot.Err != nil {
		v.Error = unavailableMessage
	}

	return v
}

// knownLocked reports whether code can be selected. Any well formed
// code is accepted until the currency names are loaded.
func (w *Widget) knownLocked(code string) bool {
	if len(w.options) == 0 {
		return true
	}
	if _, ok := catalog.Lookup(w.options, code); ok {
		return true
	}
	_, ok := w.rates.Rate(code)
	return ok
}

// applyPairLocked switches to pair. A source change refreshes the
// rates, any change reloads the chart.
func (w *Widget) applyPairLocked(pair model.Pair) {
	prev := w.pair
	w.pair = pair

	if pair.From != prev.From && !w.initializing {
		w.refreshLocked()
	}
	if pair != prev {
		w.reloadChartLocked()
	}
	w.observeLocked()
}

func (w *Widget) refreshLocked() {
	if w.closed {
		return
	}

	base := w.pair.From
	w.inflight.Add(1)
	go func() {
		defer w.inflight.Done()

		if err := w.rates.Refresh(w.ctx, base); err != nil {
			return
		}
		w.ratesRefreshed()
	}()
}

// ratesRefreshed clears a startup failure once a later fetch succeeds
func (w *Widget) ratesRefreshed() {
	w.lock.Lock()
	retryNames := !w.namesLoaded
	w.lock.Unlock()

	var names map[string]string
	if retryNames {
		var err error
		if names, err = w.names.CurrencyNames(w.ctx); err != nil {
			log.Warn().Err(err).Msg("unable to load currency names")
		}
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	if names != nil && !w.namesLoaded {
		w.options = catalog.Options(names)
		w.namesLoaded = true
		w.startErr = nil
	}
	w.observeLocked()
}

func (w *Widget) reloadChartLocked() {
	if w.closed {
		return
	}

	w.chartSeq++
	seq := w.chartSeq
	pair := w.pair
	w.chart = model.Chart{Pair: pair, Status: model.ChartLoading}

	w.inflight.Add(1)
	go func() {
		defer w.inflight.Done()

		chart := w.charts.load(w.ctx, pair)

		w.lock.Lock()
		defer w.lock.Unlock()

		if seq != w.chartSeq {
			log.Debug().Str("pair", pair.String()).Msg("discarding superseded chart")
			return
		}
		w.chart = chart
	}()
}

// lastUpdated trims the provider timestamp
// "Sun, 18 Oct 2026 00:00:01 +0000" to its date part
func lastUpdated(ts string) string {
	if len(ts) > 16 {
		return ts[:16]
	}
	return ts
}
