package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SummariesGenerated counts per-child generation outcomes, labeled
	// "success" or "error".
	SummariesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "daily_summaries_generated_total",
		Help: "Per-child daily summary generation outcomes.",
	}, []string{"status"})

	// ModelCalls counts external language-model calls, labeled "success" or
	// "failure". A failure here still yields a template narrative.
	ModelCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "model_calls_total",
		Help: "External language-model call outcomes.",
	}, []string{"outcome"})

	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guardian_notifications_total",
		Help: "Notification records created for guardians.",
	})
)
