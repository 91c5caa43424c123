package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	ordersPlaced        prometheus.Counter
	notificationsFailed *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		ordersPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "cursomc_orders_placed_total",
			Help: "Orders committed by the order insertion workflow.",
		}),
		notificationsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cursomc_notifications_failed_total",
				Help: "Emails that could not be delivered.",
			},
			[]string{"kind"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cursomc_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}
}

// The recorders below accept a nil receiver so collaborators can run without
// metrics in tests.

func (m *Metrics) OrderPlaced() {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
}

func (m *Metrics) NotificationFailed(kind string) {
	if m == nil {
		return
	}
	m.notificationsFailed.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveRequest(route, method string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
