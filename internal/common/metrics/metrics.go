// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuditSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_submissions_total",
			Help: "Total number of audit submissions by outcome",
		},
		[]string{"status"},
	)

	AuditTierDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_tier_decisions_total",
			Help: "Total number of tier recommendations by tier",
		},
		[]string{"tier"},
	)

	AuditStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "audit_stage_duration_seconds",
			Help:    "Duration of each submission stage in seconds",
			Buckets: []float64{.005, .05, .25, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	AuditSubmissionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "audit_submissions_active",
			Help: "Number of submissions currently in flight",
		},
	)

	AuditThrottled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_throttled_total",
			Help: "Requests refused or waved through by a throttle, by backend",
		},
		[]string{"backend"},
	)
)

// Outcome labels for AuditSubmissions.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
