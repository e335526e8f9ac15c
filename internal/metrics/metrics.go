package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// API metrics
var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companion_api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "companion_api_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Form submission metrics
var (
	// FormSubmissionsTotal counts workflow submissions by mode (create, update) and outcome.
	FormSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companion_form_submissions_total",
			Help: "Companion form submissions by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	FormSubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "companion_form_submission_duration_seconds",
			Help:    "Time from submit to settled outcome",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"mode"},
	)
)

// ObserveRequest records one API request. path should be the route pattern, not the raw URI.
func ObserveRequest(method, path string, status int, elapsed time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveSubmission records one settled form submission.
func ObserveSubmission(mode, outcome string, elapsed time.Duration) {
	FormSubmissionsTotal.WithLabelValues(mode, outcome).Inc()
	FormSubmissionDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// Handler serves the default Prometheus registry on a fasthttp route.
func Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
}
