package market

import (
	"context"
	"sync"
	"time"

	"github.com/guttosm/coffeepulse/internal/domain/models"
	"github.com/guttosm/coffeepulse/internal/logger"
	"github.com/guttosm/coffeepulse/internal/metrics"
)

// AlertSink receives price alerts raised while recording ticks.
type AlertSink interface {
	SendAlert(ctx context.Context, alert models.Alert) error
}

// Status is a small summary of the state for status/health endpoints.
type Status struct {
	Symbol       string
	CurrentPrice *float64
	LastTick     *models.Tick
	TotalTicks   int
	StartTime    time.Time
	Connected    bool
}

// State is the aggregate root holding the current market view.
//
// The feed goroutine is the only writer (OnTick/OnSymbolResolved/OnFeedLost);
// HTTP handlers and the report scheduler read through copies taken under the
// read lock, so they always observe the result of some completed tick.
type State struct {
	mu sync.RWMutex

	symbol       string
	currentPrice *float64
	highPrice    *float64
	lowPrice     *float64
	startTime    time.Time
	lastReport   models.Date
	connected    bool

	ticks   *TickBuffer
	monthly *MonthlyAggregator

	alertCfg     models.PriceAlertConfig
	alertSink    AlertSink
	alertTimeout time.Duration
	loc          *time.Location
	now          func() time.Time
	inflight     sync.WaitGroup
}

// Option customises a State.
type Option func(*State)

// WithAlerts sets the alert thresholds and the sink alerts are delivered to.
func WithAlerts(cfg models.PriceAlertConfig, sink AlertSink) Option {
	return func(s *State) {
		s.alertCfg = cfg
		s.alertSink = sink
	}
}

// WithLocation sets the location used for month and calendar-day boundaries.
func WithLocation(loc *time.Location) Option {
	return func(s *State) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRetention caps the number of retained ticks.
func WithRetention(n int) Option {
	return func(s *State) { s.ticks = NewTickBuffer(n) }
}

// NewState creates an empty market state.
func NewState(opts ...Option) *State {
	s := &State{
		loc:          time.Local,
		now:          time.Now,
		alertTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ticks == nil {
		s.ticks = NewTickBuffer(models.DefaultTickRetention)
	}
	s.monthly = NewMonthlyAggregator(s.loc)
	s.startTime = s.now()
	return s
}

// OnTick records one tick from the feed. It never fails; a resulting alert
// is handed to the sink asynchronously after the state lock is released.
func (s *State) OnTick(t models.Tick) {
	if alert, ok := s.record(t, true); ok {
		s.dispatch(alert)
	}
}

// Replay records historical ticks without raising alerts.
func (s *State) Replay(ticks []models.Tick) {
	for _, t := range ticks {
		s.record(t, false)
	}
}

func (s *State) record(t models.Tick, alerts bool) (models.Alert, bool) {
	if t.Timestamp.IsZero() {
		t.Timestamp = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	price := t.Price
	high, low := t.High, t.Low
	s.currentPrice = &price
	s.highPrice = &high
	s.lowPrice = &low

	s.ticks.Append(t)
	s.monthly.Update(t.Price, t.Timestamp)
	metrics.ObserveTick(t.Price)

	if !alerts {
		return models.Alert{}, false
	}
	kind := Evaluate(t.Price, s.alertCfg)
	if kind == models.AlertNone {
		return models.Alert{}, false
	}
	metrics.ObserveAlert(kind.String())
	return models.Alert{
		Kind:      kind,
		Price:     t.Price,
		Threshold: ThresholdFor(kind, s.alertCfg),
		Symbol:    s.symbol,
		At:        t.Timestamp,
	}, true
}

func (s *State) dispatch(alert models.Alert) {
	lg := logger.Component("market")
	lg.Warn().
		Str("kind", alert.Kind.String()).
		Float64("price", alert.Price).
		Float64("threshold", alert.Threshold).
		Str("symbol", alert.Symbol).
		Msg("price alert")

	if s.alertSink == nil {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.alertTimeout)
		defer cancel()
		if err := s.alertSink.SendAlert(ctx, alert); err != nil {
			lg.Error().Err(err).Str("kind", alert.Kind.String()).Msg("alert delivery failed")
		}
	}()
}

// WaitAlerts blocks until alert deliveries started so far have returned.
func (s *State) WaitAlerts() {
	s.inflight.Wait()
}

// OnSymbolResolved switches the tracked symbol. History is kept.
func (s *State) OnSymbolResolved(symbol string) {
	s.mu.Lock()
	prev := s.symbol
	s.symbol = symbol
	s.connected = true
	s.mu.Unlock()

	metrics.SetFeedConnected(true)
	lg := logger.Component("market")
	ev := lg.Info().Str("symbol", symbol)
	if prev != "" && prev != symbol {
		ev = ev.Str("previous_symbol", prev)
	}
	ev.Msg("symbol resolved")
}

// OnFeedError logs a feed failure; state is left untouched.
func (s *State) OnFeedError(err error) {
	lg := logger.Component("market")
	lg.Warn().Err(err).Msg("feed error")
}

// OnFeedLost marks the feed as disconnected. The last good state stays readable.
func (s *State) OnFeedLost() {
	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()

	metrics.SetFeedConnected(false)
	lg := logger.Component("market")
	lg.Warn().Msg("feed connection lost")
}

// SeedMonthly installs historical monthly candles.
func (s *State) SeedMonthly(candles []models.MonthlyCandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monthly.Seed(candles)
}

// Snapshot returns a consistent copy of the state with the last `window` ticks.
func (s *State) Snapshot(window int) models.ReportSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(window)
}

func (s *State) snapshotLocked(window int) models.ReportSnapshot {
	snap := models.ReportSnapshot{
		Symbol:       s.symbol,
		CurrentPrice: copyFloat(s.currentPrice),
		HighPrice:    copyFloat(s.highPrice),
		LowPrice:     copyFloat(s.lowPrice),
		StartTime:    s.startTime,
		TotalTicks:   s.ticks.Total(),
		RecentTicks:  s.ticks.Recent(window),
		MonthlyTrend: s.monthly.Trend(),
		Connected:    s.connected,
		GeneratedAt:  s.now(),
	}
	if last, ok := s.ticks.Last(); ok {
		snap.LastTick = &last
	}
	return snap
}

// ClaimDailyReport atomically checks the daily-report guard and, when it
// passes, marks today as reported and returns the snapshot to send.
//
// The guard fails when no price has been observed yet or when a report was
// already claimed for today.
func (s *State) ClaimDailyReport(today models.Date, window int) (models.ReportSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentPrice == nil || s.lastReport == today {
		return models.ReportSnapshot{}, false
	}
	s.lastReport = today
	return s.snapshotLocked(window), true
}

// LastReportDate is the calendar date of the last claimed daily report.
func (s *State) LastReportDate() (models.Date, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport, !s.lastReport.IsZero()
}

// RecentTicks returns the last n ticks, oldest first.
func (s *State) RecentTicks(n int) []models.Tick {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticks.Recent(n)
}

// MonthlyTrend returns the monthly trend series in ascending month order.
func (s *State) MonthlyTrend() []models.MonthlyTrend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.monthly.Trend()
}

// MonthlyCandles returns copies of the retained monthly candles.
func (s *State) MonthlyCandles() []models.MonthlyCandle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.monthly.Candles()
}

// Status returns the summary used by the status endpoint.
func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		Symbol:       s.symbol,
		CurrentPrice: copyFloat(s.currentPrice),
		TotalTicks:   s.ticks.Total(),
		StartTime:    s.startTime,
		Connected:    s.connected,
	}
	if last, ok := s.ticks.Last(); ok {
		st.LastTick = &last
	}
	return st
}

// AlertConfig returns the configured thresholds.
func (s *State) AlertConfig() models.PriceAlertConfig {
	return s.alertCfg
}

// Location is the location used for calendar boundaries.
func (s *State) Location() *time.Location {
	return s.loc
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
