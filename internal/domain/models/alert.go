package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidThreshold is returned when an alert threshold is not a finite, non-negative price.
var ErrInvalidThreshold = errors.New("invalid alert threshold")

// AlertKind is the outcome of evaluating a price against the alert thresholds.
type AlertKind int

const (
	AlertNone AlertKind = iota
	AlertHigh
	AlertLow
)

func (k AlertKind) String() string {
	switch k {
	case AlertHigh:
		return "high"
	case AlertLow:
		return "low"
	default:
		return "none"
	}
}

// MarshalText renders the kind by name in JSON payloads.
func (k AlertKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// PriceAlertConfig holds the alert thresholds. It is loaded once at startup
// and never changes for the lifetime of the process.
type PriceAlertConfig struct {
	Enabled       bool    `json:"enabled"`
	HighThreshold float64 `json:"high_threshold"`
	LowThreshold  float64 `json:"low_threshold"`
}

// NewPriceAlertConfig validates the thresholds and builds the config.
//
// Inverted thresholds (high <= low) are accepted: evaluation checks the high
// bound first, so High wins wherever both would match.
func NewPriceAlertConfig(enabled bool, high, low float64) (PriceAlertConfig, error) {
	if !validThreshold(high) {
		return PriceAlertConfig{}, fmt.Errorf("%w: high=%v", ErrInvalidThreshold, high)
	}
	if !validThreshold(low) {
		return PriceAlertConfig{}, fmt.Errorf("%w: low=%v", ErrInvalidThreshold, low)
	}
	return PriceAlertConfig{Enabled: enabled, HighThreshold: high, LowThreshold: low}, nil
}

func validThreshold(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// Inverted reports whether the configured bounds overlap.
func (c PriceAlertConfig) Inverted() bool {
	return c.HighThreshold <= c.LowThreshold
}

// Alert is a fully-formed price alert handed to the alert sink.
type Alert struct {
	Kind      AlertKind `json:"kind"`
	Price     float64   `json:"price"`
	Threshold float64   `json:"threshold"`
	Symbol    string    `json:"symbol"`
	At        time.Time `json:"at"`
}
