package models

import (
	"fmt"
	"time"
)

// MonthKey identifies one calendar month. Keys are compared numerically via
// Ordinal, never by their string form.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthKeyOf returns the month of t observed in loc (nil means t's own location).
func MonthKeyOf(t time.Time, loc *time.Location) MonthKey {
	if loc != nil {
		t = t.In(loc)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Ordinal maps the key onto a strictly increasing integer (months since year 0).
func (k MonthKey) Ordinal() int {
	return k.Year*12 + int(k.Month) - 1
}

// MonthKeyFromOrdinal is the inverse of Ordinal.
func MonthKeyFromOrdinal(o int) MonthKey {
	return MonthKey{Year: o / 12, Month: time.Month(o%12 + 1)}
}

func (k MonthKey) Before(other MonthKey) bool {
	return k.Ordinal() < other.Ordinal()
}

// String renders the key as zero-padded YYYY-MM.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// ParseMonthKey parses a YYYY-MM string.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month key %q: %w", s, err)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

// Date is a calendar day in the reporting location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t observed in loc (nil means t's own location).
func DateOf(t time.Time, loc *time.Location) Date {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
