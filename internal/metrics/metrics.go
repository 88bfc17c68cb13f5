package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records valida-curp round trips.
// It implements validacurp.Observer.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Published       *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "validacurp_requests_total",
			Help: "Total number of valida-curp API calls by operation, API version and HTTP status (0 = transport failure)",
		}, []string{"operation", "api_version", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "validacurp_request_duration_seconds",
			Help:    "Duration of valida-curp API calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation", "api_version"}),
		Published: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "validacurp_batch_events_published_total",
			Help: "Batch result events delivered to publishers, by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveRequest records one API round trip.
func (m *Metrics) ObserveRequest(operation string, version, statusCode int, elapsed time.Duration) {
	v := strconv.Itoa(version)
	m.Requests.WithLabelValues(operation, v, strconv.Itoa(statusCode)).Inc()
	m.RequestDuration.WithLabelValues(operation, v).Observe(elapsed.Seconds())
}

// ObservePublished records how many publishers accepted an event and how many failed.
func (m *Metrics) ObservePublished(delivered, failed int) {
	m.Published.WithLabelValues("delivered").Add(float64(delivered))
	m.Published.WithLabelValues("failed").Add(float64(failed))
}
