package market

import "github.com/guttosm/coffeepulse/internal/domain/models"

// Evaluate checks price against the alert thresholds.
//
// The high bound is checked first, so with inverted thresholds (high <= low)
// a price matching both yields AlertHigh. Repeated qualifying prices are not
// debounced; every call re-evaluates from scratch.
func Evaluate(price float64, cfg models.PriceAlertConfig) models.AlertKind {
	if !cfg.Enabled {
		return models.AlertNone
	}
	if price >= cfg.HighThreshold {
		return models.AlertHigh
	}
	if price <= cfg.LowThreshold {
		return models.AlertLow
	}
	return models.AlertNone
}

// ThresholdFor returns the bound that produced kind.
func ThresholdFor(kind models.AlertKind, cfg models.PriceAlertConfig) float64 {
	switch kind {
	case models.AlertHigh:
		return cfg.HighThreshold
	case models.AlertLow:
		return cfg.LowThreshold
	default:
		return 0
	}
}
