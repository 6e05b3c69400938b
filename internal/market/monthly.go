package market

import (
	"time"

	"github.com/tidwall/btree"

	"github.com/guttosm/coffeepulse/internal/domain/models"
)

// MaxMonths is the number of calendar months retained by MonthlyAggregator.
const MaxMonths = 12

const dateLayout = "2006-01-02"

// MonthlyAggregator maintains a rolling series of monthly OHLC candles.
//
// Candles live in an ordered map keyed by MonthKey.Ordinal, so eviction and
// trend ordering follow calendar order across year boundaries. Dates are
// resolved in the aggregator's location. Not safe for concurrent use.
type MonthlyAggregator struct {
	candles *btree.Map[int, *models.MonthlyCandle]
	loc     *time.Location
}

// NewMonthlyAggregator creates an empty aggregator. A nil loc means time.Local.
func NewMonthlyAggregator(loc *time.Location) *MonthlyAggregator {
	if loc == nil {
		loc = time.Local
	}
	return &MonthlyAggregator{
		candles: btree.NewMap[int, *models.MonthlyCandle](32),
		loc:     loc,
	}
}

// Update folds one price observed at `at` into the candle of its month.
func (a *MonthlyAggregator) Update(price float64, at time.Time) {
	local := at.In(a.loc)
	key := models.MonthKeyOf(local, nil)
	day := local.Format(dateLayout)

	c, ok := a.candles.Get(key.Ordinal())
	if !ok {
		c = &models.MonthlyCandle{
			Month:       key,
			Open:        price,
			High:        price,
			Low:         price,
			Close:       price,
			Volume:      1,
			LastUpdate:  at,
			DailyPrices: map[string]models.DailyPrice{},
		}
		a.candles.Set(key.Ordinal(), c)
	} else {
		if price > c.High {
			c.High = price
		}
		if price < c.Low {
			c.Low = price
		}
		c.Close = price
		c.Volume++
		c.LastUpdate = at
	}

	// same-day ticks overwrite the entry for that date
	c.DailyPrices[day] = models.DailyPrice{Date: day, Price: price, Time: at}

	a.evict()
}

// Seed installs pre-built candles (e.g. historical monthly bars), replacing
// any candle already held for the same month, then applies retention.
func (a *MonthlyAggregator) Seed(candles []models.MonthlyCandle) {
	for _, c := range candles {
		cp := c.Clone()
		if cp.Volume <= 0 {
			cp.Volume = 1
		}
		a.candles.Set(cp.Month.Ordinal(), &cp)
	}
	a.evict()
}

func (a *MonthlyAggregator) evict() {
	for a.candles.Len() > MaxMonths {
		oldest, _, ok := a.candles.Min()
		if !ok {
			return
		}
		a.candles.Delete(oldest)
	}
}

// Trend returns one row per retained month in ascending calendar order.
// A month whose open is zero reports a 0% change instead of Inf/NaN.
func (a *MonthlyAggregator) Trend() []models.MonthlyTrend {
	out := make([]models.MonthlyTrend, 0, a.candles.Len())
	a.candles.Scan(func(_ int, c *models.MonthlyCandle) bool {
		change := c.Close - c.Open
		out = append(out, models.MonthlyTrend{
			Month:         c.Month.String(),
			Open:          c.Open,
			High:          c.High,
			Low:           c.Low,
			Close:         c.Close,
			Volume:        c.Volume,
			Change:        change,
			ChangePercent: models.Percent(change, c.Open),
		})
		return true
	})
	return out
}

// Candles returns deep copies of the retained candles in ascending order.
func (a *MonthlyAggregator) Candles() []models.MonthlyCandle {
	out := make([]models.MonthlyCandle, 0, a.candles.Len())
	a.candles.Scan(func(_ int, c *models.MonthlyCandle) bool {
		out = append(out, c.Clone())
		return true
	})
	return out
}

// Candle returns a copy of the candle for key.
func (a *MonthlyAggregator) Candle(key models.MonthKey) (models.MonthlyCandle, bool) {
	c, ok := a.candles.Get(key.Ordinal())
	if !ok {
		return models.MonthlyCandle{}, false
	}
	return c.Clone(), true
}

// Len is the number of retained months.
func (a *MonthlyAggregator) Len() int { return a.candles.Len() }
