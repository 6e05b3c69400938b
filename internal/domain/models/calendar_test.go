package models

import (
	"testing"
	"time"
)

func TestMonthKey_OrderingAcrossYearBoundary(t *testing.T) {
	cases := []struct {
		a, b MonthKey
		want bool
	}{
		{MonthKey{2024, time.December}, MonthKey{2025, time.January}, true},
		{MonthKey{2025, time.September}, MonthKey{2025, time.October}, true},
		{MonthKey{2025, time.October}, MonthKey{2025, time.September}, false},
		{MonthKey{2025, time.March}, MonthKey{2025, time.March}, false},
	}
	for _, tc := range cases {
		if got := tc.a.Before(tc.b); got != tc.want {
			t.Fatalf("%s.Before(%s)=%v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMonthKey_StringAndOrdinalRoundTrip(t *testing.T) {
	k := MonthKey{Year: 2025, Month: time.February}
	if k.String() != "2025-02" {
		t.Fatalf("String()=%q", k.String())
	}
	if back := MonthKeyFromOrdinal(k.Ordinal()); back != k {
		t.Fatalf("round trip %v -> %v", k, back)
	}
	parsed, err := ParseMonthKey("2025-02")
	if err != nil || parsed != k {
		t.Fatalf("ParseMonthKey: %v %v", parsed, err)
	}
	if _, err := ParseMonthKey("2025/02"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestMonthKeyOf_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	// 2025-01-31 20:00 UTC is already February 1st in UTC+7
	at := time.Date(2025, time.January, 31, 20, 0, 0, 0, time.UTC)
	if got := MonthKeyOf(at, loc); got.String() != "2025-02" {
		t.Fatalf("MonthKeyOf=%s, want 2025-02", got)
	}
	if got := DateOf(at, loc); got.String() != "2025-02-01" {
		t.Fatalf("DateOf=%s, want 2025-02-01", got)
	}
	if got := DateOf(at, nil); got.String() != "2025-01-31" {
		t.Fatalf("DateOf(nil loc)=%s", got)
	}
}
