// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coffeepulse"

var (
	ticksIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_ingested_total",
			Help:      "Total price ticks recorded by the market state",
		},
	)

	alertsTriggered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_triggered_total",
			Help:      "Total price alerts raised, by kind",
		},
		[]string{"kind"},
	)

	deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Alert and report delivery attempts, by kind and status",
		},
		[]string{"kind", "status"},
	)

	currentPrice = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_price",
			Help:      "Last traded price of the tracked instrument",
		},
	)

	feedConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_connected",
			Help:      "1 when the market-data feed has a resolved symbol, 0 otherwise",
		},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)
)

// ObserveTick records an ingested tick and its price.
func ObserveTick(price float64) {
	ticksIngested.Inc()
	currentPrice.Set(price)
}

// ObserveAlert counts a raised alert.
func ObserveAlert(kind string) {
	alertsTriggered.WithLabelValues(kind).Inc()
}

// ObserveDelivery counts one delivery attempt.
func ObserveDelivery(kind, status string) {
	deliveries.WithLabelValues(kind, status).Inc()
}

// SetFeedConnected flips the feed gauge.
func SetFeedConnected(connected bool) {
	if connected {
		feedConnected.Set(1)
		return
	}
	feedConnected.Set(0)
}

// ObserveHTTPRequest counts a served request.
func ObserveHTTPRequest(method, path string, status int) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
