package suggest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "ok"
	outcomeFallback = "fallback"
	outcomeCanceled = "canceled"
)

// Metrics counts suggestion requests. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the suggestion collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expwiz",
			Name:      "suggestion_requests_total",
			Help:      "Suggestion requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "expwiz",
			Name:      "suggestion_duration_seconds",
			Help:      "Time spent serving a suggestion request.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"kind"}),
	}
}

func (m *Metrics) observe(k Kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(k), outcome).Inc()
	m.duration.WithLabelValues(string(k)).Observe(d.Seconds())
}
