package receipt

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for receipt processing
type Metrics struct {
	registry  *prometheus.Registry
	Submitted prometheus.Counter
	Rejected  *prometheus.CounterVec
	Points    prometheus.Histogram
	Lookups   *prometheus.CounterVec
}

// NewMetrics creates the metrics on their own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Submitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "receipts_submitted_total",
			Help: "Total number of receipts scored and stored",
		}),
		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "receipts_rejected_total",
			Help: "Total number of receipt submissions that failed",
		}, []string{"reason"}),
		Points: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "receipt_points",
			Help:    "Points awarded per receipt",
			Buckets: prometheus.ExponentialBuckets(10, 2, 8),
		}),
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "receipt_lookups_total",
			Help: "Total number of score lookups by result",
		}, []string{"result"}),
	}
}

// Handler serves the metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// The helpers below accept a nil receiver so metrics stay optional

func (m *Metrics) submitted(points int) {
	if m == nil {
		return
	}
	m.Submitted.Inc()
	m.Points.Observe(float64(points))
}

func (m *Metrics) rejected(err error) {
	if m == nil {
		return
	}
	reason := "internal"
	var validation *ValidationError
	if errors.As(err, &validation) {
		reason = "validation"
	}
	m.Rejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) lookup(result string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(result).Inc()
}
