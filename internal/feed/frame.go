package feed

import (
	"time"

	"github.com/guttosm/coffeepulse/internal/domain/models"
)

const (
	frameSubscribe    = "subscribe"
	frameSymbolLoaded = "symbol_loaded"
	frameMonthly      = "monthly_history"
	frameTick         = "tick"
	frameError        = "error"
)

type subscribeFrame struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
}

// frame is the union of all messages the upstream sends.
type frame struct {
	Type    string        `json:"type"`
	Symbol  string        `json:"symbol,omitempty"`
	Message string        `json:"message,omitempty"`
	Price   float64       `json:"price"`
	Open    float64       `json:"open"`
	High    float64       `json:"high"`
	Low     float64       `json:"low"`
	Volume  *float64      `json:"volume,omitempty"`
	Time    int64         `json:"time,omitempty"` // unix seconds
	Months  []monthlyItem `json:"months,omitempty"`
}

type monthlyItem struct {
	Month  string  `json:"month"` // YYYY-MM
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int     `json:"volume"`
}

// tick converts a tick frame. A missing time is left zero so the state
// stamps it with its own clock.
func (f frame) tick() models.Tick {
	t := models.Tick{
		Price:  f.Price,
		Open:   f.Open,
		High:   f.High,
		Low:    f.Low,
		Volume: f.Volume,
	}
	if f.Time > 0 {
		t.Timestamp = time.Unix(f.Time, 0)
	}
	return t
}

func (f frame) candles() ([]models.MonthlyCandle, error) {
	out := make([]models.MonthlyCandle, 0, len(f.Months))
	for _, m := range f.Months {
		key, err := models.ParseMonthKey(m.Month)
		if err != nil {
			return nil, err
		}
		out = append(out, models.MonthlyCandle{
			Month:  key,
			Open:   m.Open,
			High:   m.High,
			Low:    m.Low,
			Close:  m.Close,
			Volume: m.Volume,
		})
	}
	return out, nil
}
