package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

var (
	AnalyticsRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_runs_total",
			Help:      "Total number of analytics computations by analysis",
		},
		[]string{"analysis"},
	)

	AnalyticsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analytics_duration_seconds",
			Help:      "Duration of analytics computations including record loading",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"analysis"},
	)

	AnalyticsInputRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "analytics_input_records",
			Help:      "Number of records fed into the last computation of each analysis",
		},
		[]string{"analysis"},
	)

	DealsByHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "deals_by_health",
			Help:      "Deal journeys per stall classification at the last stall scan",
		},
		[]string{"health"},
	)

	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Scheduled job runs by job and result",
		},
		[]string{"job", "result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// ObserveAnalysis records one run of an analysis over inputs records
func ObserveAnalysis(analysis string, inputs int, started time.Time) {
	AnalyticsRuns.WithLabelValues(analysis).Inc()
	AnalyticsInputRecords.WithLabelValues(analysis).Set(float64(inputs))
	AnalyticsDuration.WithLabelValues(analysis).Observe(time.Since(started).Seconds())
}
