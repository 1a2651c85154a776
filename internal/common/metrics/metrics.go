package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_applications_submitted_total",
			Help: "Total number of application records created",
		},
	)

	SubmissionsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_submissions_rejected_total",
			Help: "Total number of submissions rejected at validation",
		},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_status_transitions_total",
			Help: "Total number of status transitions applied",
		},
		[]string{"action"},
	)

	ArtifactRenders = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_artifact_renders_total",
			Help: "Total number of PDF receipts rendered",
		},
	)

	ArtifactRenderFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_artifact_render_failures_total",
			Help: "Total number of PDF receipt render failures",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "portal_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "route", "status"},
	)
)
