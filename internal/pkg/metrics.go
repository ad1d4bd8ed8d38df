package pkg

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 审核管线指标
var (
	MetricSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_submissions_total",
			Help: "Submissions by action type and outcome",
		},
		[]string{"action", "outcome"}, // outcome: published/queued/denied
	)

	MetricVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_verdicts_total",
			Help: "Non-clean classifier verdicts by reason and severity",
		},
		[]string{"reason", "severity"},
	)

	MetricQueueTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_queue_transitions_total",
			Help: "Queue state transitions by target state",
		},
		[]string{"to"},
	)

	MetricEscalations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moderation_autobans_total",
			Help: "Automatic bans triggered by the warning threshold",
		},
	)

	MetricNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_notifications_total",
			Help: "Notifications emitted by audience",
		},
		[]string{"audience"},
	)
)
