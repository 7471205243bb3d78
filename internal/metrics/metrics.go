// Package metrics provides Prometheus metric collection and exposition.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is the recording interface handed to middleware and services.
type Collector interface {
	RecordHTTPRequest(method, route string, status int, elapsed time.Duration)
	RecordBookingCreated()
	RecordBookingCanceled()
	RecordStatsRequest(scope string)
	RecordAuthRejection(reason string)
}

type PrometheusCollector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	bookingsCreated prometheus.Counter
	bookingsDeleted prometheus.Counter
	statsRequests   *prometheus.CounterVec
	authRejections  *prometheus.CounterVec

	registry *prometheus.Registry
}

func NewPrometheusCollector() *PrometheusCollector {
	c := &PrometheusCollector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "staywell_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "staywell_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "staywell_bookings_created_total",
			Help: "Total bookings created",
		}),
		bookingsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "staywell_bookings_canceled_total",
			Help: "Total bookings canceled by guests",
		}),
		statsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "staywell_stats_requests_total",
			Help: "Dashboard statistics requests by scope",
		}, []string{"scope"}),
		authRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "staywell_auth_rejections_total",
			Help: "Requests rejected by the access control chain",
		}, []string{"reason"}),
		registry: prometheus.NewRegistry(),
	}

	c.registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.bookingsCreated,
		c.bookingsDeleted,
		c.statsRequests,
		c.authRejections,
	)

	return c
}

func (c *PrometheusCollector) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *PrometheusCollector) RecordBookingCreated() {
	c.bookingsCreated.Inc()
}

func (c *PrometheusCollector) RecordBookingCanceled() {
	c.bookingsDeleted.Inc()
}

func (c *PrometheusCollector) RecordStatsRequest(scope string) {
	c.statsRequests.WithLabelValues(scope).Inc()
}

func (c *PrometheusCollector) RecordAuthRejection(reason string) {
	c.authRejections.WithLabelValues(reason).Inc()
}

// Handler serves the /metrics endpoint for this collector's registry.
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// NopCollector discards all recordings. Used in tests.
type NopCollector struct{}

func (NopCollector) RecordHTTPRequest(string, string, int, time.Duration) {}
func (NopCollector) RecordBookingCreated()                                {}
func (NopCollector) RecordBookingCanceled()                               {}
func (NopCollector) RecordStatsRequest(string)                            {}
func (NopCollector) RecordAuthRejection(string)                           {}
