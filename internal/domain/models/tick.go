package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Default read windows over the tick log.
const (
	WebHistoryWindow     = 50   // /api/v1/history and dashboard chart
	EmailChartWindow     = 20   // report e-mail sparkline
	TableWindow          = 10   // "Recent Updates" tables
	DefaultTickRetention = 5000 // hard cap on retained ticks
)

// Tick represents one observed price update for the tracked instrument.
//
// Price, High, Low and Open come straight from the feed. Change and
// ChangePercent are derived when the tick is appended to the buffer,
// relative to the previously retained tick.
//
// swagger:model Tick
type Tick struct {
	Timestamp     time.Time `json:"timestamp" example:"2025-01-05T09:30:00Z"`
	Price         float64   `json:"price" example:"4512.5"`
	High          float64   `json:"high" example:"4530"`
	Low           float64   `json:"low" example:"4480"`
	Open          float64   `json:"open" example:"4490"`
	Volume        *float64  `json:"volume,omitempty" example:"1250"`
	Change        float64   `json:"change" example:"12.5"`
	ChangePercent float64   `json:"change_percent" example:"0.28"`
}

// WithChange returns a copy of t with Change/ChangePercent computed against prev.
// A zero prev yields a zero percentage instead of Inf/NaN.
func (t Tick) WithChange(prev float64, hasPrev bool) Tick {
	if !hasPrev {
		t.Change = 0
		t.ChangePercent = 0
		return t
	}
	t.Change = t.Price - prev
	t.ChangePercent = Percent(t.Change, prev)
	return t
}

// Percent returns part/base*100 rounded to two decimals, or 0 when base is 0
// or the result is not finite.
func Percent(part, base float64) float64 {
	if base == 0 {
		return 0
	}
	v := part / base * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return Round2(v)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
