package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/guttosm/coffeepulse/internal/domain/models"
	"github.com/guttosm/coffeepulse/internal/logger"
)

// ReportSource hands out the snapshot for today's report when the daily
// guard allows it (price observed, not yet reported today).
type ReportSource interface {
	ClaimDailyReport(today models.Date, window int) (models.ReportSnapshot, bool)
}

// ReportSink delivers a rendered report and returns the transport message id.
type ReportSink interface {
	SendReport(ctx context.Context, snap models.ReportSnapshot) (string, error)
}

// NextFireTime returns today at hour:00:00 in loc if that instant is still
// ahead of now, otherwise the same wall-clock time tomorrow.
func NextFireTime(now time.Time, hour int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	y, m, d := local.Date()
	next := time.Date(y, m, d, hour, 0, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(y, m, d+1, hour, 0, 0, 0, loc)
	}
	return next
}

// Daily fires the report sink at most once per calendar day at a fixed hour.
//
// It is a recurring task with an explicit next-fire instant: after every
// attempt (sent, skipped by the guard, or failed) the instant advances to the
// following day. Failed deliveries are logged and not retried.
type Daily struct {
	hour    int
	loc     *time.Location
	window  int
	timeout time.Duration
	source  ReportSource
	sink    ReportSink
	now     func() time.Time

	mu   sync.RWMutex
	next time.Time
}

// Config holds the scheduler settings.
type Config struct {
	Hour     int            // local hour of day, 0..23
	Location *time.Location // nil means time.Local
	Window   int            // ticks included in the snapshot
	Timeout  time.Duration  // per-delivery timeout
	Now      func() time.Time
}

// NewDaily computes the initial fire instant from the current time.
func NewDaily(cfg Config, source ReportSource, sink ReportSink) *Daily {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Window <= 0 {
		cfg.Window = models.EmailChartWindow
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	d := &Daily{
		hour:    cfg.Hour,
		loc:     cfg.Location,
		window:  cfg.Window,
		timeout: cfg.Timeout,
		source:  source,
		sink:    sink,
		now:     cfg.Now,
	}
	d.next = NextFireTime(d.now(), d.hour, d.loc)
	return d
}

// Next is the next scheduled fire instant.
func (d *Daily) Next() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.next
}

// Tick runs one scheduling step at `now`. When the fire instant has been
// reached it attempts today's report and advances the schedule. It reports
// whether a report was handed to the sink.
func (d *Daily) Tick(ctx context.Context, now time.Time) bool {
	d.mu.Lock()
	if now.Before(d.next) {
		d.mu.Unlock()
		return false
	}
	d.next = NextFireTime(now, d.hour, d.loc)
	next := d.next
	d.mu.Unlock()

	lg := logger.Component("scheduler")
	today := models.DateOf(now, d.loc)
	snap, ok := d.source.ClaimDailyReport(today, d.window)
	if !ok {
		lg.Info().Str("date", today.String()).Time("next", next).Msg("daily report skipped")
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	id, err := d.sink.SendReport(sendCtx, snap)
	if err != nil {
		lg.Error().Err(err).Str("date", today.String()).Time("next", next).Msg("daily report delivery failed")
		return true
	}
	lg.Info().Str("date", today.String()).Str("message_id", id).Time("next", next).Msg("daily report sent")
	return true
}

// Run drives Tick from a timer armed for the next fire instant until ctx is done.
func (d *Daily) Run(ctx context.Context) error {
	lg := logger.Component("scheduler")
	lg.Info().Int("hour", d.hour).Str("location", d.loc.String()).Time("next", d.Next()).Msg("daily report scheduled")

	timer := time.NewTimer(d.until())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			d.Tick(ctx, d.now())
			timer.Reset(d.until())
		}
	}
}

func (d *Daily) until() time.Duration {
	wait := d.Next().Sub(d.now())
	if wait < 0 {
		return 0
	}
	return wait
}
