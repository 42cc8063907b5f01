package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_processed_total",
			Help: "Total number of inbound updates processed by kind",
		},
		[]string{"kind"},
	)

	AnswersRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_answers_rejected_total",
			Help: "Total number of answers rejected by type validation",
		},
	)

	RegistrationsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_registrations_completed_total",
			Help: "Total number of completed registrations",
		},
	)

	SendFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_send_failures_total",
			Help: "Total number of failed outbound deliveries",
		},
		[]string{"kind"},
	)

	UpdateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bot_update_duration_seconds",
			Help: "Duration of update handling in seconds",
		},
		[]string{"kind"},
	)
)
