package models

import "time"

// DailyPrice is the last price seen on one calendar date.
type DailyPrice struct {
	Date  string    `json:"date" example:"2025-01-20"`
	Price float64   `json:"price" example:"4512.5"`
	Time  time.Time `json:"time"`
}

// MonthlyCandle is the OHLC summary of one calendar month built from live ticks.
//
// Fields:
//   - Open: price of the first tick of the month, never changed afterwards.
//   - High / Low: widen monotonically as ticks arrive.
//   - Close: price of the most recent tick of the month.
//   - Volume: number of ticks that contributed (not market volume).
//   - DailyPrices: one entry per calendar date, overwritten by later same-day ticks.
type MonthlyCandle struct {
	Month       MonthKey              `json:"-"`
	Open        float64               `json:"open"`
	High        float64               `json:"high"`
	Low         float64               `json:"low"`
	Close       float64               `json:"close"`
	Volume      int                   `json:"volume"`
	LastUpdate  time.Time             `json:"last_update"`
	DailyPrices map[string]DailyPrice `json:"daily_prices"`
}

// Clone returns a deep copy so callers never share DailyPrices with the aggregator.
func (c MonthlyCandle) Clone() MonthlyCandle {
	out := c
	out.DailyPrices = make(map[string]DailyPrice, len(c.DailyPrices))
	for k, v := range c.DailyPrices {
		out.DailyPrices[k] = v
	}
	return out
}

// MonthlyTrend is one row of the monthly trend series.
//
// swagger:model MonthlyTrend
type MonthlyTrend struct {
	Month         string  `json:"month" example:"2025-01"`
	Open          float64 `json:"open" example:"100"`
	High          float64 `json:"high" example:"150"`
	Low           float64 `json:"low" example:"100"`
	Close         float64 `json:"close" example:"150"`
	Volume        int     `json:"volume" example:"2"`
	Change        float64 `json:"change" example:"50"`
	ChangePercent float64 `json:"change_percent" example:"50"`
}
