// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "activity_http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RosterOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_roster_operations_total",
			Help: "Total number of signup and unregister operations by result",
		},
		[]string{"operation", "result"},
	)

	ActivityParticipants = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activity_participants",
			Help: "Current number of participants per activity",
		},
		[]string{"activity"},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_notifications_failed_total",
			Help: "Total number of roster notifications that could not be delivered",
		},
		[]string{"channel"},
	)
)
