package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers the Prometheus metrics for the HTTP surface.
type Collector struct {
	requests      *prometheus.CounterVec
	duration      prometheus.Histogram
	signInSuccess prometheus.Counter
	signInFail    prometheus.Counter
	signUps       prometheus.Counter
	dashboardFail *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with the given
// registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenora_http_requests_total",
			Help: "Handled HTTP requests by route and status code.",
		}, []string{"route", "status_code"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "zenora_http_request_duration_seconds",
			Help:    "End to end HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		signInSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zenora_signin_success_total",
			Help: "Successful credential exchanges.",
		}),
		signInFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zenora_signin_fail_total",
			Help: "Rejected credential exchanges.",
		}),
		signUps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zenora_signup_total",
			Help: "Accounts created through the signup endpoint.",
		}),
		dashboardFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenora_dashboard_load_fail_total",
			Help: "Dashboard load cycles aborted by a read failure, by collection.",
		}, []string{"collection"}),
	}

	reg.MustRegister(
		c.requests,
		c.duration,
		c.signInSuccess,
		c.signInFail,
		c.signUps,
		c.dashboardFail,
	)

	return c
}

func (c *Collector) RecordRequest(route string, statusCode int, elapsed time.Duration) {
	c.requests.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	c.duration.Observe(elapsed.Seconds())
}

func (c *Collector) RecordSignIn(success bool) {
	if success {
		c.signInSuccess.Inc()
	} else {
		c.signInFail.Inc()
	}
}

func (c *Collector) RecordSignUp() {
	c.signUps.Inc()
}

func (c *Collector) RecordDashboardFailure(collection string) {
	c.dashboardFail.WithLabelValues(collection).Inc()
}

// MetricsHandler returns the HTTP handler Prometheus scrapes.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
