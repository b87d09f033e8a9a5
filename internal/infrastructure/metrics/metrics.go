package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Intake-API Metrics
var (
	// Intake outcomes
	IntakeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipvive",
			Subsystem: "intake_api",
			Name:      "intake_requests_total",
			Help:      "Total intake requests by outcome",
		},
		[]string{"status"},
	)

	// Quota guard denials
	QuotaDenialsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clipvive",
			Subsystem: "intake_api",
			Name:      "quota_denials_total",
			Help:      "Total admissions denied by the quota guard",
		},
	)

	// Retention sweep deletions
	SweepDeletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clipvive",
			Subsystem: "intake_api",
			Name:      "sweep_deletions_total",
			Help:      "Total files reclaimed by the retention sweeper",
		},
	)

	// Sweep duration histogram
	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "clipvive",
			Subsystem: "intake_api",
			Name:      "sweep_duration_seconds",
			Help:      "Retention sweep duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	// Remote upload outcomes
	RemoteUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipvive",
			Subsystem: "intake_api",
			Name:      "remote_uploads_total",
			Help:      "Total remote upload attempts by outcome",
		},
		[]string{"status"},
	)
)
