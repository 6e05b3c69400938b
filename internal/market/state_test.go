package market

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/coffeepulse/internal/domain/models"
)

type recordingSink struct {
	mu     sync.Mutex
	alerts []models.Alert
	err    error
}

func (r *recordingSink) SendAlert(_ context.Context, a models.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
	return r.err
}

func (r *recordingSink) got() []models.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Alert(nil), r.alerts...)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestState(sink AlertSink) *State {
	cfg := models.PriceAlertConfig{Enabled: true, HighThreshold: 6000, LowThreshold: 4000}
	return NewState(
		WithAlerts(cfg, sink),
		WithLocation(time.UTC),
		WithClock(fixedClock(time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC))),
		WithRetention(100),
	)
}

func TestState_OnTickUpdatesEverything(t *testing.T) {
	s := newTestState(nil)
	s.OnSymbolResolved("ICEEUR:RC1!")
	at := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	s.OnTick(models.Tick{Timestamp: at, Price: 4500, High: 4550, Low: 4450, Open: 4480})
	s.OnTick(models.Tick{Timestamp: at.Add(time.Minute), Price: 4600, High: 4650, Low: 4450, Open: 4480})

	snap := s.Snapshot(models.WebHistoryWindow)
	if snap.Symbol != "ICEEUR:RC1!" || !snap.Connected {
		t.Fatalf("unexpected symbol/connection: %+v", snap)
	}
	if snap.CurrentPrice == nil || *snap.CurrentPrice != 4600 || *snap.HighPrice != 4650 || *snap.LowPrice != 4450 {
		t.Fatalf("unexpected prices: %+v", snap)
	}
	if len(snap.RecentTicks) != 2 || snap.RecentTicks[1].Change != 100 {
		t.Fatalf("unexpected ticks: %+v", snap.RecentTicks)
	}
	if len(snap.MonthlyTrend) != 1 || snap.MonthlyTrend[0].Volume != 2 {
		t.Fatalf("unexpected trend: %+v", snap.MonthlyTrend)
	}
	if snap.LastTick == nil || snap.LastTick.Price != 4600 || snap.TotalTicks != 2 {
		t.Fatalf("unexpected last tick: %+v", snap.LastTick)
	}
}

func TestState_ZeroTimestampUsesClock(t *testing.T) {
	s := newTestState(nil)
	s.OnTick(models.Tick{Price: 5000})
	ticks := s.RecentTicks(1)
	if !ticks[0].Timestamp.Equal(time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("timestamp=%v", ticks[0].Timestamp)
	}
}

func TestState_AlertsEveryQualifyingTick(t *testing.T) {
	sink := &recordingSink{}
	s := newTestState(sink)
	s.OnSymbolResolved("RC1")
	for _, p := range []float64{6100, 6200, 5000, 3900} {
		s.OnTick(models.Tick{Price: p})
	}
	s.WaitAlerts()

	got := sink.got()
	if len(got) != 3 {
		t.Fatalf("alerts=%d, want 3 (no debounce)", len(got))
	}
	kinds := map[models.AlertKind]int{}
	for _, a := range got {
		kinds[a.Kind]++
		if a.Symbol != "RC1" {
			t.Fatalf("alert without symbol: %+v", a)
		}
	}
	if kinds[models.AlertHigh] != 2 || kinds[models.AlertLow] != 1 {
		t.Fatalf("unexpected kinds: %+v", kinds)
	}
	for _, a := range got {
		if a.Kind == models.AlertLow && a.Threshold != 4000 {
			t.Fatalf("low alert threshold=%v", a.Threshold)
		}
	}
}

func TestState_SinkFailureDoesNotAffectState(t *testing.T) {
	sink := &recordingSink{err: errors.New("smtp down")}
	s := newTestState(sink)
	s.OnTick(models.Tick{Price: 7000})
	s.WaitAlerts()
	if snap := s.Snapshot(10); snap.CurrentPrice == nil || *snap.CurrentPrice != 7000 {
		t.Fatalf("state not updated despite sink failure")
	}
}

func TestState_ReplaySuppressesAlerts(t *testing.T) {
	sink := &recordingSink{}
	s := newTestState(sink)
	s.Replay([]models.Tick{{Price: 7000}, {Price: 1000}})
	s.WaitAlerts()
	if len(sink.got()) != 0 {
		t.Fatalf("replay must not alert")
	}
	if s.Status().TotalTicks != 2 {
		t.Fatalf("replayed ticks not recorded")
	}
}

func TestState_SymbolSwitchKeepsHistory(t *testing.T) {
	s := newTestState(nil)
	s.OnSymbolResolved("ICEEUR:RC1!")
	s.OnTick(models.Tick{Price: 5000})
	s.OnFeedLost()
	if s.Status().Connected {
		t.Fatalf("expected disconnected after feed loss")
	}
	s.OnFeedError(errors.New("timeout"))
	s.OnSymbolResolved("ICEEUR:RCF2026")
	st := s.Status()
	if st.Symbol != "ICEEUR:RCF2026" || st.TotalTicks != 1 || !st.Connected {
		t.Fatalf("unexpected status after switch: %+v", st)
	}
	if len(s.MonthlyTrend()) != 1 {
		t.Fatalf("monthly history wiped on symbol switch")
	}
}

func TestState_ClaimDailyReport(t *testing.T) {
	s := newTestState(nil)
	today := models.Date{Year: 2025, Month: time.January, Day: 6}

	if _, ok := s.ClaimDailyReport(today, 20); ok {
		t.Fatalf("claim must fail before any price")
	}
	if _, ok := s.LastReportDate(); ok {
		t.Fatalf("failed claim must not record a date")
	}

	s.OnTick(models.Tick{Price: 5000})
	snap, ok := s.ClaimDailyReport(today, 20)
	if !ok || snap.CurrentPrice == nil {
		t.Fatalf("first claim of the day should succeed")
	}
	if _, ok := s.ClaimDailyReport(today, 20); ok {
		t.Fatalf("second claim on the same day must fail")
	}
	if d, ok := s.LastReportDate(); !ok || d != today {
		t.Fatalf("last report date=%v", d)
	}
	tomorrow := models.Date{Year: 2025, Month: time.January, Day: 7}
	if _, ok := s.ClaimDailyReport(tomorrow, 20); !ok {
		t.Fatalf("claim on the next day should succeed")
	}
}

func TestState_ConcurrentReadsDuringIngest(t *testing.T) {
	s := newTestState(nil)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			s.OnTick(models.Tick{Price: 5000 + float64(i%10)})
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				snap := s.Snapshot(models.WebHistoryWindow)
				if snap.TotalTicks > 0 && snap.LastTick == nil {
					t.Errorf("torn snapshot: %d ticks without last tick", snap.TotalTicks)
					return
				}
				if n := len(snap.RecentTicks); n > 0 && snap.RecentTicks[n-1].Price != snap.LastTick.Price {
					t.Errorf("torn snapshot: last tick mismatch")
					return
				}
			}
		}()
	}
	wg.Wait()
	if s.Status().TotalTicks != 500 {
		t.Fatalf("total=%d", s.Status().TotalTicks)
	}
}

func TestState_SeedMonthly(t *testing.T) {
	s := newTestState(nil)
	s.SeedMonthly([]models.MonthlyCandle{
		{Month: models.MonthKey{Year: 2024, Month: time.December}, Open: 4000, High: 4200, Low: 3900, Close: 4100, Volume: 20},
	})
	candles := s.MonthlyCandles()
	if len(candles) != 1 || candles[0].Volume != 20 {
		t.Fatalf("unexpected candles: %+v", candles)
	}
}
