package widget

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kylycht/flux/model"
	"github.com/kylycht/flux/service/catalog"
	"github.com/kylycht/flux/storage"
	"github.com/kylycht/flux/storage/history"
	"github.com/kylycht/flux/storage/kv"
	"github.com/kylycht/flux/storage/prefs"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var startedAt = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

type fakeTimer struct {
	s       *fakeScheduler
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler runs due timers when the test advances its clock
type fakeScheduler struct {
	lock   sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.lock.Lock()
	defer s.lock.Unlock()

	t := &fakeTimer{s: s, at: s.now.Add(d), fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Now() time.Time {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.now
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.lock.Lock()
	target := s.now.Add(d)
	s.lock.Unlock()

	for {
		s.lock.Lock()
		var next *fakeTimer
		for _, t := range s.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			s.now = target
			s.lock.Unlock()
			return
		}
		next.fired = true
		s.now = next.at
		s.lock.Unlock()

		next.fn()
	}
}

// fakeRates answers from fixed tables, unknown bases fail
type fakeRates struct {
	lock   sync.Mutex
	quotes map[string]model.Quote
	err    error
}

func (f *fakeRates) LatestRates(_ context.Context, base string) (model.Quote, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.err != nil {
		return model.Quote{}, f.err
	}
	q, ok := f.quotes[base]
	if !ok {
		return model.Quote{}, errors.New("no rates for " + base)
	}
	return q, nil
}

func (f *fakeRates) set(base string, rates model.RateTable, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if rates != nil {
		f.quotes[base] = model.Quote{Base: base, Updated: "Sun, 18 Oct 2026 00:00:01 +0000", Rates: rates}
	}
	f.err = err
}

type mockSeries struct {
	mock.Mock
}

func (m *mockSeries) RateSeries(ctx context.Context, from, to string, days int) (model.Series, error) {
	args := m.Called(ctx, from, to, days)
	series, _ := args.Get(0).(model.Series)
	return series, args.Error(1)
}

type mockNames struct {
	mock.Mock
}

func (m *mockNames) CurrencyNames(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	names, _ := args.Get(0).(map[string]string)
	return names, args.Error(1)
}

// gatedCall is a fetch parked until the test releases it
type gatedCall struct {
	key     string
	release chan struct{}
}

// gate parks every fetch and hands it to the test
type gate struct {
	calls chan gatedCall
}

func newGate() gate {
	return gate{calls: make(chan gatedCall, 16)}
}

func (g gate) wait(ctx context.Context, key string) error {
	call := gatedCall{key: key, release: make(chan struct{})}
	g.calls <- call

	select {
	case <-call.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// next collects n parked fetches keyed by what they asked for
func (g gate) next(t *testing.T, n int) map[string]gatedCall {
	t.Helper()

	out := make(map[string]gatedCall, n)
	for len(out) < n {
		select {
		case call := <-g.calls:
			out[call.key] = call
		case <-time.After(time.Second):
			t.Fatalf("expected %d fetches, got %d", n, len(out))
		}
	}
	return out
}

type gatedRates struct {
	gate
	quotes map[string]model.RateTable
}

func (g *gatedRates) LatestRates(ctx context.Context, base string) (model.Quote, error) {
	if err := g.wait(ctx, base); err != nil {
		return model.Quote{}, err
	}
	return model.Quote{Base: base, Updated: "Sun, 18 Oct 2026 00:00:01 +0000", Rates: g.quotes[base]}, nil
}

type gatedSeries struct {
	gate
	series map[string]model.Series
}

func (g *gatedSeries) RateSeries(ctx context.Context, from, to string, _ int) (model.Series, error) {
	key := from + "/" + to
	if err := g.wait(ctx, key); err != nil {
		return nil, err
	}
	return g.series[key], nil
}

type WidgetTestSuite struct {
	suite.Suite
	scheduler *fakeScheduler
	rates     *fakeRates
	series    *mockSeries
	store     *kv.Memory
	widget    *Widget
}

func TestWidgetTestSuite(t *testing.T) {
	suite.Run(t, new(WidgetTestSuite))
}

func (s *WidgetTestSuite) SetupTest() {
	s.scheduler = &fakeScheduler{now: startedAt}
	s.rates = &fakeRates{quotes: map[string]model.Quote{}}
	s.rates.set("USD", model.RateTable{"USD": 1, "EUR": 0.9, "KZT": 500}, nil)
	s.rates.set("EUR", model.RateTable{"EUR": 1, "USD": 1.1, "KZT": 550}, nil)
	s.series = &mockSeries{}
	s.series.On("RateSeries", mock.Anything, mock.Anything, mock.Anything, 30).Return(nil, nil)
	s.store = kv.NewMemory()
}

func (s *WidgetTestSuite) TearDownTest() {
	if s.widget != nil {
		s.widget.Close()
		s.widget = nil
	}
}

func (s *WidgetTestSuite) newWidget(names *mockNames) *Widget {
	ctx := context.Background()
	ledger := history.New(ctx, history.NewRepository(s.store), history.DefaultCapacity)

	var nameProvider = catalog.New()
	if names != nil {
		nameProvider = names
	}

	s.widget = New(DefaultConfig(), s.rates, s.series, nameProvider, ledger, prefs.New(s.store, model.Light),
		WithScheduler(s.scheduler), WithClock(s.scheduler.Now))
	return s.widget
}

func (s *WidgetTestSuite) started() *Widget {
	w := s.newWidget(nil)
	w.Start()
	w.Wait()
	return w
}

func (s *WidgetTestSuite) TestInitialState() {
	w := s.started()

	v := w.View()
	s.Equal("100", v.AmountText)
	s.Equal(model.Source, v.Anchor)
	s.Equal("100", v.FromAmount)
	s.Equal("50000.00", v.ToAmount)
	s.Equal(model.Pair{From: "USD", To: "KZT"}, v.Pair)
	s.Equal("United States Dollar", v.FromName)
	s.Equal("Sun, 18 Oct 2026", v.LastUpdated)
	s.Require().NotNil(v.Rate)
	s.Equal(500.0, *v.Rate)
	s.False(v.Loading)
	s.Empty(v.Error)
	s.Equal(model.Light, v.Theme)

	options := w.Options()
	s.Require().NotEmpty(options)
	s.Equal("USD", options[0].Code)
}

func (s *WidgetTestSuite) TestTargetAnchor() {
	w := s.started()

	s.Require().NoError(w.SetAmount(model.Target, "50000"))
	v := w.View()
	s.Equal("100.00", v.FromAmount)
	s.Equal("50000", v.ToAmount)

	s.Require().NoError(w.SetAmount(model.Target, ""))
	s.Equal("", w.View().FromAmount)

	s.ErrorIs(w.SetAmount(model.Anchor("SIDEWAYS"), "1"), ErrValidation)
}

func (s *WidgetTestSuite) TestRecordsAfterQuietPeriod() {
	w := s.started()

	s.scheduler.Advance(2 * time.Second)

	entries := w.History()
	s.Require().Len(entries, 1)
	s.Equal("USD", entries[0].From)
	s.Equal("KZT", entries[0].To)
	s.Equal("100", entries[0].AmountFrom)
	s.Equal("50,000", entries[0].AmountTo)
	s.Equal("09:30", entries[0].RecordedAt)

	raw, ok, err := s.store.Get(context.Background(), storage.HistoryKey)
	s.NoError(err)
	s.True(ok)
	s.Contains(raw, `"amountTo":"50,000"`)
}

func (s *WidgetTestSuite) TestQuietPeriodIsReset() {
	w := s.started()
	s.scheduler.Advance(2 * time.Second)
	s.Require().Len(w.History(), 1)

	s.Require().NoError(w.SetAmount(model.Source, "1"))
	s.scheduler.Advance(time.Second)
	s.Require().NoError(w.SetAmount(model.Source, "12"))
	s.scheduler.Advance(time.Second)
	s.Len(w.History(), 1, "timer restarted at the second edit")

	s.scheduler.Advance(time.Second)
	entries := w.History()
	s.Require().Len(entries, 2)
	s.Equal("12", entries[0].AmountFrom)
	s.Equal("6,000", entries[0].AmountTo)
	s.Equal("09:30", entries[0].RecordedAt)
}

func (s *WidgetTestSuite) TestRecorderSkipsBlankAndRepeats() {
	w := s.started()
	s.scheduler.Advance(2 * time.Second)
	s.Require().Len(w.History(), 1)

	s.Require().NoError(w.SetAmount(model.Source, "0"))
	s.scheduler.Advance(3 * time.Second)
	s.Require().NoError(w.SetAmount(model.Source, ""))
	s.scheduler.Advance(3 * time.Second)
	s.Require().NoError(w.SetAmount(model.Source, "abc"))
	s.scheduler.Advance(3 * time.Second)
	s.Len(w.History(), 1)

	s.Require().NoError(w.SetAmount(model.Source, "100"))
	s.scheduler.Advance(3 * time.Second)
	s.Len(w.History(), 1, "same conversion as the latest entry")
}

func (s *WidgetTestSuite) TestRestore() {
	w := s.started()
	s.scheduler.Advance(2 * time.Second)
	entry := w.History()[0]

	s.Require().NoError(w.SetTo("EUR"))
	s.Require().NoError(w.SetAmount(model.Target, "7"))

	restored, err := w.Restore(entry.ID)
	s.Require().NoError(err)
	s.Equal(entry, restored)

	v := w.View()
	s.Equal("100", v.AmountText)
	s.Equal(model.Source, v.Anchor)
	s.Equal(model.Pair{From: "USD", To: "KZT"}, v.Pair)
	s.Equal("50000.00", v.ToAmount)

	_, err = w.Restore("missing")
	s.ErrorIs(err, ErrUnknownEntry)
}

func (s *WidgetTestSuite) TestRestoreRejectsInvalidPair() {
	ctx := context.Background()
	repo := history.NewRepository(s.store)
	blank := history.NewEntry("", "USD", "10", "9", startedAt)
	malformed := history.NewEntry("EUR", "usd1", "10", "11", startedAt.Add(time.Minute))
	s.Require().NoError(repo.Save(ctx, []model.HistoryEntry{malformed, blank}))

	w := s.started()
	s.Require().NoError(w.SetAmount(model.Source, "42"))

	_, err := w.Restore(blank.ID)
	s.ErrorIs(err, ErrValidation)
	_, err = w.Restore(malformed.ID)
	s.ErrorIs(err, ErrValidation)

	v := w.View()
	s.Equal(model.Pair{From: "USD", To: "KZT"}, v.Pair)
	s.Equal("42", v.AmountText)
	s.Equal("21000.00", v.ToAmount)
}

func (s *WidgetTestSuite) TestRestoreStripsGrouping() {
	ctx := context.Background()
	repo := history.NewRepository(s.store)
	entry := history.NewEntry("EUR", "USD", "1,234.5", "1,357.95", startedAt)
	s.Require().NoError(repo.Save(ctx, []model.HistoryEntry{entry}))

	w := s.started()
	_, err := w.Restore(entry.ID)
	s.Require().NoError(err)
	w.Wait()

	v := w.View()
	s.Equal("1234.5", v.AmountText)
	s.Equal(model.Pair{From: "EUR", To: "USD"}, v.Pair)
	s.Equal("1357.95", v.ToAmount)
}

func (s *WidgetTestSuite) TestSwap() {
	w := s.started()
	s.Require().NoError(w.SetAmount(model.Target, "500"))

	w.Swap()
	v := w.View()
	s.True(v.Swapping)
	s.Equal(model.Pair{From: "USD", To: "KZT"}, v.Pair, "exchange happens after the delay")

	s.scheduler.Advance(150 * time.Millisecond)
	v = w.View()
	s.True(v.Swapping)
	s.Equal(model.Pair{From: "KZT", To: "USD"}, v.Pair)
	s.Equal(model.Source, v.Anchor)
	s.Equal("500", v.AmountText)

	s.scheduler.Advance(50 * time.Millisecond)
	s.False(w.View().Swapping)
	w.Wait()

	w.Swap()
	s.scheduler.Advance(200 * time.Millisecond)
	w.Wait()
	v = w.View()
	s.Equal(model.Pair{From: "USD", To: "KZT"}, v.Pair)
	s.Equal("250000.00", v.ToAmount)
}

func (s *WidgetTestSuite) TestSourceChangeRefreshesRates() {
	w := s.started()

	s.Require().NoError(w.SetTo("EUR"))
	s.Equal("90.00", w.View().ToAmount, "target change uses the current table")

	s.Require().NoError(w.SetFrom("eur"))
	s.Require().NoError(w.SetTo("KZT"))
	w.Wait()
	v := w.View()
	s.Equal(model.Pair{From: "EUR", To: "KZT"}, v.Pair)
	s.Equal("55000.00", v.ToAmount)

	// a failing background refresh keeps the previous table
	s.Require().NoError(w.SetFrom("GBP"))
	w.Wait()
	v = w.View()
	s.Empty(v.Error)
	s.Equal("55000.00", v.ToAmount)
}

func (s *WidgetTestSuite) TestLatestPairWins() {
	rates := &gatedRates{gate: newGate(), quotes: map[string]model.RateTable{
		"USD": {"USD": 1, "KZT": 500},
		"EUR": {"EUR": 1, "KZT": 550},
		"GBP": {"GBP": 1, "KZT": 600},
	}}
	series := &gatedSeries{gate: newGate(), series: map[string]model.Series{
		"USD/KZT": {"2026-10-17": {"KZT": 501}},
		"EUR/KZT": {"2026-10-17": {"KZT": 551}},
		"GBP/KZT": {"2026-10-17": {"KZT": 601}},
	}}

	ledger := history.New(context.Background(), history.NewRepository(s.store), history.DefaultCapacity)
	w := New(DefaultConfig(), rates, series, catalog.New(), ledger, prefs.New(s.store, model.Light),
		WithScheduler(s.scheduler), WithClock(s.scheduler.Now))
	s.widget = w

	w.Start()
	for _, call := range rates.next(s.T(), 1) {
		close(call.release)
	}
	for _, call := range series.next(s.T(), 1) {
		close(call.release)
	}
	w.Wait()
	s.Equal("50000.00", w.View().ToAmount)

	s.Require().NoError(w.SetFrom("EUR"))
	s.Require().NoError(w.SetFrom("GBP"))

	rateCalls := rates.next(s.T(), 2)
	seriesCalls := series.next(s.T(), 2)

	// the newer pair answers first
	close(rateCalls["GBP"].release)
	close(seriesCalls["GBP/KZT"].release)
	s.Eventually(func() bool {
		return w.View().ToAmount == "60000.00" && w.Chart().Status == model.ChartReady
	}, time.Second, time.Millisecond)

	close(rateCalls["EUR"].release)
	close(seriesCalls["EUR/KZT"].release)
	w.Wait()

	v := w.View()
	s.Equal(model.Pair{From: "GBP", To: "KZT"}, v.Pair)
	s.Equal("60000.00", v.ToAmount)
	s.Require().NotNil(v.Rate)
	s.Equal(600.0, *v.Rate)

	chart := w.Chart()
	s.Equal(model.Pair{From: "GBP", To: "KZT"}, chart.Pair)
	s.Equal(model.ChartReady, chart.Status)
	s.Equal([]model.RatePoint{{Date: "2026-10-17", Rate: 601}}, chart.Points)
}

func (s *WidgetTestSuite) TestSetCurrencyValidation() {
	w := s.started()

	s.ErrorIs(w.SetFrom("us"), ErrValidation)
	s.ErrorIs(w.SetTo("XQZ"), ErrValidation)
	s.Equal(model.Pair{From: "USD", To: "KZT"}, w.View().Pair)
}

func (s *WidgetTestSuite) TestInitialLoadFailure() {
	s.rates.set("USD", nil, errors.New("network down"))

	w := s.newWidget(nil)
	w.Start()
	w.Wait()

	v := w.View()
	s.Equal(unavailableMessage, v.Error)
	s.Empty(w.Options())
	s.Nil(v.Rate)

	s.Require().NoError(w.SetAmount(model.Source, "250"))
	s.scheduler.Advance(5 * time.Second)
	s.Empty(w.History())

	// a later successful fetch clears the error
	s.rates.set("EUR", nil, nil)
	s.Require().NoError(w.SetFrom("EUR"))
	w.Wait()

	v = w.View()
	s.Empty(v.Error)
	s.NotEmpty(w.Options())
	s.Equal("137500.00", v.ToAmount)
}

func (s *WidgetTestSuite) TestNamesFailure() {
	names := &mockNames{}
	names.On("CurrencyNames", mock.Anything).Return(nil, errors.New("unreachable"))

	w := s.newWidget(names)
	w.Start()
	w.Wait()

	s.Equal(unavailableMessage, w.View().Error)
	s.Empty(w.Options())

	s.scheduler.Advance(5 * time.Second)
	s.Empty(w.History())
}

func (s *WidgetTestSuite) TestChart() {
	s.series.ExpectedCalls = nil
	s.series.On("RateSeries", mock.Anything, "USD", "KZT", 30).Return(model.Series{
		"2026-10-17": {"KZT": 501},
		"2026-09-18": {"KZT": 480},
		"2026-10-01": {"KZT": 490},
	}, nil)
	s.series.On("RateSeries", mock.Anything, "USD", "EUR", 30).Return(nil, nil)
	s.series.On("RateSeries", mock.Anything, "USD", "GBP", 30).Return(nil, errors.New("timeout"))

	w := s.started()

	chart := w.Chart()
	s.Equal(model.ChartReady, chart.Status)
	s.Equal([]model.RatePoint{
		{Date: "2026-09-18", Rate: 480},
		{Date: "2026-10-01", Rate: 490},
		{Date: "2026-10-17", Rate: 501},
	}, chart.Points)

	s.Require().NoError(w.SetTo("EUR"))
	w.Wait()
	s.Equal(model.ChartUnavailable, w.Chart().Status)

	s.Require().NoError(w.SetTo("GBP"))
	w.Wait()
	s.Equal(model.ChartFailed, w.Chart().Status)

	// cached for the day
	s.Require().NoError(w.SetTo("KZT"))
	w.Wait()
	s.Equal(model.ChartReady, w.Chart().Status)
	s.series.AssertNumberOfCalls(s.T(), "RateSeries", 3)
}

func (s *WidgetTestSuite) TestClearHistoryAndTheme() {
	w := s.started()
	s.scheduler.Advance(2 * time.Second)
	s.Require().Len(w.History(), 1)

	w.ClearHistory()
	s.Empty(w.History())

	s.Equal(model.Dark, w.ToggleTheme())
	s.Equal(model.Dark, w.View().Theme)
}

func (s *WidgetTestSuite) TestCloseStopsRecorder() {
	w := s.started()
	w.Close()

	s.scheduler.Advance(5 * time.Second)
	s.Empty(w.History())
}

func (s *WidgetTestSuite) TestRevalidateRates() {
	w := s.started()

	s.rates.set("USD", model.RateTable{"KZT": 510}, nil)
	w.RevalidateRates()
	w.Wait()

	s.Equal("51000.00", w.View().ToAmount)
}
