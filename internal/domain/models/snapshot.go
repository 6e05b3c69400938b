package models

import "time"

// ReportSnapshot is an immutable copy of the market state, safe to hand to
// renderers, sinks and HTTP handlers.
//
// swagger:model ReportSnapshot
type ReportSnapshot struct {
	Symbol       string         `json:"symbol" example:"ICEEUR:RC1!"`
	CurrentPrice *float64       `json:"current_price"`
	HighPrice    *float64       `json:"high_price"`
	LowPrice     *float64       `json:"low_price"`
	StartTime    time.Time      `json:"start_time"`
	LastTick     *Tick          `json:"last_tick,omitempty"`
	TotalTicks   int            `json:"total_ticks"`
	RecentTicks  []Tick         `json:"recent_ticks"`
	MonthlyTrend []MonthlyTrend `json:"monthly_trend"`
	Connected    bool           `json:"connected"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// Tail returns the last n ticks of the snapshot window.
func (s ReportSnapshot) Tail(n int) []Tick {
	if n <= 0 {
		return nil
	}
	if n >= len(s.RecentTicks) {
		return s.RecentTicks
	}
	return s.RecentTicks[len(s.RecentTicks)-n:]
}

// LastMonths returns the last n monthly trend rows.
func (s ReportSnapshot) LastMonths(n int) []MonthlyTrend {
	if n <= 0 {
		return nil
	}
	if n >= len(s.MonthlyTrend) {
		return s.MonthlyTrend
	}
	return s.MonthlyTrend[len(s.MonthlyTrend)-n:]
}

// Delivery records the outcome of one alert or report delivery attempt.
//
// swagger:model Delivery
type Delivery struct {
	ID        string    `json:"id" example:"0b8f3c1e-0000-4000-8000-000000000000"`
	Kind      string    `json:"kind" example:"report"`
	Status    string    `json:"status" example:"sent"`
	MessageID string    `json:"message_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Delivery kinds and statuses.
const (
	DeliveryKindReport = "report"
	DeliveryKindAlert  = "alert"
	DeliveryStatusSent = "sent"
	DeliveryStatusFail = "failed"
)
