package dto

import (
	"time"

	"github.com/guttosm/coffeepulse/internal/domain/models"
)

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	Status        string     `json:"status" example:"running"`
	Instrument    string     `json:"instrument" example:"Coffee Robusta"`
	Symbol        string     `json:"symbol" example:"ICEEUR:RC1!"`
	CurrentPrice  *float64   `json:"current_price" example:"4512.5"`
	LastUpdate    *time.Time `json:"last_update"`
	StartTime     time.Time  `json:"start_time"`
	Uptime        string     `json:"uptime" example:"2h13m5s"`
	UptimeSeconds int64      `json:"uptime_seconds" example:"7985"`
	TotalUpdates  int        `json:"total_updates" example:"1280"`
	NextReport    time.Time  `json:"next_report"`
	Connected     bool       `json:"connected" example:"true"`
	LoginEnabled  bool       `json:"login_enabled" example:"false"`
}

// PriceResponse is returned by GET /api/v1/price.
type PriceResponse struct {
	Symbol     string       `json:"symbol" example:"ICEEUR:RC1!"`
	Price      *float64     `json:"price" example:"4512.5"`
	High       *float64     `json:"high" example:"4550"`
	Low        *float64     `json:"low" example:"4450"`
	LastTick   *models.Tick `json:"last_tick,omitempty"`
	LastUpdate *time.Time   `json:"last_update"`
	Connected  bool         `json:"connected" example:"true"`
}

// HistoryResponse is returned by GET /api/v1/history.
type HistoryResponse struct {
	Symbol string        `json:"symbol" example:"ICEEUR:RC1!"`
	Count  int           `json:"count" example:"50"`
	Total  int           `json:"total" example:"1280"`
	Ticks  []models.Tick `json:"ticks"`
}

// MonthlyTrendResponse is returned by GET /api/v1/monthly-trend.
type MonthlyTrendResponse struct {
	Symbol string                `json:"symbol" example:"ICEEUR:RC1!"`
	Count  int                   `json:"count" example:"12"`
	Months []models.MonthlyTrend `json:"months"`
}

// LoginStatusResponse is returned by GET /api/v1/login-status.
type LoginStatusResponse struct {
	LoginEnabled   bool   `json:"login_enabled" example:"true"`
	Authenticated  bool   `json:"authenticated" example:"true"`
	Username       string `json:"username,omitempty" example:"admin"`
	ActiveSessions int    `json:"active_sessions" example:"1"`
}

// SessionsClearedResponse is returned by DELETE /api/v1/sessions.
type SessionsClearedResponse struct {
	Cleared int `json:"cleared" example:"3"`
}

// TestReportResponse is returned by POST /api/v1/report/test.
type TestReportResponse struct {
	Success   bool   `json:"success" example:"true"`
	MessageID string `json:"message_id" example:"<0b6c...@example.com>"`
}

// SMTPCheckResponse is returned by GET /api/v1/report/smtp-check.
type SMTPCheckResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"SMTP connection verified"`
}

// DeliveriesResponse is returned by GET /api/v1/deliveries.
type DeliveriesResponse struct {
	Count      int               `json:"count" example:"2"`
	Deliveries []models.Delivery `json:"deliveries"`
}

// NotFoundResponse lists the available endpoints for unknown routes.
type NotFoundResponse struct {
	Message   string   `json:"message" example:"endpoint not found"`
	Path      string   `json:"path" example:"/nope"`
	Endpoints []string `json:"endpoints"`
}
