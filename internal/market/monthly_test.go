package market

import (
	"reflect"
	"testing"
	"time"

	"github.com/guttosm/coffeepulse/internal/domain/models"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestMonthlyAggregator_Scenario(t *testing.T) {
	a := NewMonthlyAggregator(time.UTC)
	a.Update(100, day(2025, time.January, 5, 10))
	a.Update(150, day(2025, time.January, 20, 10))
	a.Update(80, day(2025, time.February, 1, 10))

	jan, ok := a.Candle(models.MonthKey{Year: 2025, Month: time.January})
	if !ok {
		t.Fatalf("missing January candle")
	}
	if jan.Open != 100 || jan.High != 150 || jan.Low != 100 || jan.Close != 150 || jan.Volume != 2 {
		t.Fatalf("unexpected January candle: %+v", jan)
	}
	feb, _ := a.Candle(models.MonthKey{Year: 2025, Month: time.February})
	if feb.Open != 80 || feb.High != 80 || feb.Low != 80 || feb.Close != 80 || feb.Volume != 1 {
		t.Fatalf("unexpected February candle: %+v", feb)
	}

	trend := a.Trend()
	want := []models.MonthlyTrend{
		{Month: "2025-01", Open: 100, High: 150, Low: 100, Close: 150, Volume: 2, Change: 50, ChangePercent: 50.00},
		{Month: "2025-02", Open: 80, High: 80, Low: 80, Close: 80, Volume: 1, Change: 0, ChangePercent: 0.00},
	}
	if !reflect.DeepEqual(trend, want) {
		t.Fatalf("trend=%+v\nwant=%+v", trend, want)
	}
}

func TestMonthlyAggregator_OpenFixedAndMonotoneWidening(t *testing.T) {
	a := NewMonthlyAggregator(time.UTC)
	prices := []float64{50, 70, 30, 60, 20, 90, 55}
	key := models.MonthKey{Year: 2025, Month: time.March}
	maxSeen, minSeen := prices[0], prices[0]
	for i, p := range prices {
		a.Update(p, day(2025, time.March, 1+i, 12))
		if p > maxSeen {
			maxSeen = p
		}
		if p < minSeen {
			minSeen = p
		}
		c, _ := a.Candle(key)
		if c.Open != prices[0] {
			t.Fatalf("open changed to %v after tick %d", c.Open, i)
		}
		if c.High < maxSeen || c.Low > minSeen {
			t.Fatalf("high/low not widened: %+v (max %v min %v)", c, maxSeen, minSeen)
		}
		if c.Close != p || c.Volume != i+1 {
			t.Fatalf("close/volume wrong after tick %d: %+v", i, c)
		}
	}
}

func TestMonthlyAggregator_DailyPricesDedup(t *testing.T) {
	a := NewMonthlyAggregator(time.UTC)
	a.Update(10, day(2025, time.April, 2, 9))
	a.Update(11, day(2025, time.April, 2, 15))
	a.Update(12, day(2025, time.April, 3, 9))

	c, _ := a.Candle(models.MonthKey{Year: 2025, Month: time.April})
	if len(c.DailyPrices) != 2 {
		t.Fatalf("daily prices=%d, want 2", len(c.DailyPrices))
	}
	if got := c.DailyPrices["2025-04-02"]; got.Price != 11 || !got.Time.Equal(day(2025, time.April, 2, 15)) {
		t.Fatalf("same-day tick did not overwrite: %+v", got)
	}
	if c.Volume != 3 {
		t.Fatalf("volume counts ticks, got %d", c.Volume)
	}
}

func TestMonthlyAggregator_DailyPricesUseLocalDate(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	a := NewMonthlyAggregator(loc)
	// 18:00 UTC on the 10th is 01:00 on the 11th in UTC+7
	a.Update(10, time.Date(2025, time.May, 10, 18, 0, 0, 0, time.UTC))
	c, _ := a.Candle(models.MonthKey{Year: 2025, Month: time.May})
	if _, ok := c.DailyPrices["2025-05-11"]; !ok {
		t.Fatalf("expected local date key, got %+v", c.DailyPrices)
	}
}

func TestMonthlyAggregator_RetentionEvictsEarliest(t *testing.T) {
	a := NewMonthlyAggregator(time.UTC)
	// 13 months spanning a year boundary: 2024-06 .. 2025-06
	start := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		a.Update(float64(100+i), start.AddDate(0, i, 0))
	}
	if a.Len() != MaxMonths {
		t.Fatalf("len=%d, want %d", a.Len(), MaxMonths)
	}
	if _, ok := a.Candle(models.MonthKey{Year: 2024, Month: time.June}); ok {
		t.Fatalf("earliest month was not evicted")
	}
	trend := a.Trend()
	if trend[0].Month != "2024-07" || trend[len(trend)-1].Month != "2025-06" {
		t.Fatalf("unexpected range %s..%s", trend[0].Month, trend[len(trend)-1].Month)
	}
	for i := 1; i < len(trend); i++ {
		if trend[i-1].Month >= trend[i].Month {
			t.Fatalf("trend not ascending at %d: %s >= %s", i, trend[i-1].Month, trend[i].Month)
		}
	}
}

func TestMonthlyAggregator_TrendIsPureRead(t *testing.T) {
	a := NewMonthlyAggregator(time.UTC)
	a.Update(100, day(2025, time.January, 5, 10))
	a.Update(120, day(2025, time.January, 6, 10))
	first := a.Trend()
	second := a.Trend()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("trend changed between reads: %+v vs %+v", first, second)
	}
}

func TestMonthlyAggregator_ZeroOpenGuard(t *testing.T) {
	a := NewMonthlyAggregator(time.UTC)
	a.Update(0, day(2025, time.January, 1, 10))
	a.Update(10, day(2025, time.January, 2, 10))
	a.Update(50, day(2025, time.February, 1, 10))
	a.Update(55, day(2025, time.February, 2, 10))

	trend := a.Trend()
	if len(trend) != 2 {
		t.Fatalf("len=%d", len(trend))
	}
	if trend[0].ChangePercent != 0 || trend[0].Change != 10 {
		t.Fatalf("zero-open month: %+v", trend[0])
	}
	if trend[1].ChangePercent != 10 {
		t.Fatalf("other months must be unaffected: %+v", trend[1])
	}
}

func TestMonthlyAggregator_Seed(t *testing.T) {
	a := NewMonthlyAggregator(time.UTC)
	var seed []models.MonthlyCandle
	for i := 0; i < 14; i++ {
		k := models.MonthKeyFromOrdinal(models.MonthKey{Year: 2024, Month: time.January}.Ordinal() + i)
		seed = append(seed, models.MonthlyCandle{Month: k, Open: 1, High: 2, Low: 1, Close: 2})
	}
	a.Seed(seed)
	if a.Len() != MaxMonths {
		t.Fatalf("len=%d", a.Len())
	}
	trend := a.Trend()
	if trend[0].Month != "2024-03" || trend[0].Volume != 1 || trend[0].ChangePercent != 100 {
		t.Fatalf("unexpected first row: %+v", trend[0])
	}

	// live ticks extend the seeded candle
	a.Update(3, day(2025, time.February, 10, 10))
	c, _ := a.Candle(models.MonthKey{Year: 2025, Month: time.February})
	if c.Open != 1 || c.High != 3 || c.Close != 3 || c.Volume != 2 {
		t.Fatalf("unexpected candle after update: %+v", c)
	}
}

func TestMonthlyAggregator_CandlesAreCopies(t *testing.T) {
	a := NewMonthlyAggregator(time.UTC)
	a.Update(10, day(2025, time.January, 1, 10))
	cs := a.Candles()
	cs[0].DailyPrices["2025-01-01"] = models.DailyPrice{Price: 999}
	c, _ := a.Candle(models.MonthKey{Year: 2025, Month: time.January})
	if c.DailyPrices["2025-01-01"].Price != 10 {
		t.Fatalf("aggregator state leaked through Candles()")
	}
}
