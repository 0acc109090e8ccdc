package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics counts checkout attempts by outcome and tracks latency.
type CheckoutMetrics struct {
	Attempts  *prometheus.CounterVec
	LatencyMS prometheus.Histogram
}

func NewCheckoutMetrics() *CheckoutMetrics {
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "attempts_total",
		Help:      "Checkout attempts by outcome.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "duration_ms",
		Help:      "Checkout latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	prometheus.MustRegister(attempts, latency)
	return &CheckoutMetrics{Attempts: attempts, LatencyMS: latency}
}

// Observe records one finished checkout attempt.
func (m *CheckoutMetrics) Observe(outcome string, durationMS float64) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(outcome).Inc()
	m.LatencyMS.Observe(durationMS)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
