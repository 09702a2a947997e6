package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the storefront API.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	catalogQueries *prometheus.CounterVec
	imageUploads   *prometheus.CounterVec
	unreadMessages prometheus.Gauge
	socketClients  *prometheus.GaugeVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gmp_http_requests_total",
			Help: "Counts HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gmp_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		catalogQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gmp_catalog_queries_total",
			Help: "Storefront catalog queries by kind (listing, search) and outcome.",
		}, []string{"kind", "outcome"}),
		imageUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gmp_image_uploads_total",
			Help: "Product image uploads by outcome.",
		}, []string{"outcome"}),
		unreadMessages: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gmp_unread_contact_messages",
			Help: "Unread contact messages at the last scheduled count.",
		}),
		socketClients: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gmp_websocket_clients",
			Help: "Connected websocket clients by channel.",
		}, []string{"channel"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.catalogQueries,
		m.imageUploads,
		m.unreadMessages,
		m.socketClients,
	)
	return m
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) RecordCatalogQuery(kind string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.catalogQueries.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) RecordImageUpload(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.imageUploads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetUnreadMessages(count int64) {
	if m == nil {
		return
	}
	m.unreadMessages.Set(float64(count))
}

func (m *Metrics) AddSocketClients(channel string, delta int) {
	if m == nil {
		return
	}
	m.socketClients.WithLabelValues(channel).Add(float64(delta))
}
