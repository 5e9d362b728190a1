// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ServiceCallsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_service_calls_completed_total",
			Help: "Total number of service calls completed, by task type",
		},
		[]string{"task_type"},
	)

	ServiceCallsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_service_calls_failed_total",
			Help: "Total number of service calls failed, by task type and error code",
		},
		[]string{"task_type", "error_code"},
	)

	ServiceCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assessment_service_call_duration_seconds",
			Help:    "Duration of service calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"task_type"},
	)

	ServiceCallsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "assessment_service_calls_active",
			Help: "Number of in-flight service calls per task type",
		},
		[]string{"task_type"},
	)

	OverallScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assessment_overall_score",
			Help:    "Distribution of overall assessment scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	OverallTiers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_overall_tier_total",
			Help: "Assessments by overall tier",
		},
		[]string{"tier"},
	)

	ToneFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_tone_lookups_total",
			Help: "Tone matrix lookups by the fallback level that matched",
		},
		[]string{"level"},
	)

	PDFBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assessment_pdf_bytes",
			Help:    "Size of rendered PDF documents",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 10),
		},
	)

	PDFPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assessment_pdf_pages",
			Help:    "Pages per rendered PDF document",
			Buckets: []float64{1, 2, 3, 5, 8, 13},
		},
	)

	RenderCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_render_cache_requests_total",
			Help: "Render cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assessment_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assessment_http_requests_active",
			Help: "Number of HTTP requests in flight",
		},
	)
)
