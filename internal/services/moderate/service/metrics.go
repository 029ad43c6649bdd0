package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var commandsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "toxicbot_commands_processed_total",
	Help: "Commands processed, by telemetry name and success",
}, []string{"name", "success"})

var commandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "toxicbot_command_duration_seconds",
	Help:    "Time from event intake to settled command",
	Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
}, []string{"name"})

var unrecognizedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "toxicbot_unrecognized_events_total",
	Help: "Events that mapped to no command",
}, []string{"event_name"})

var interventions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "toxicbot_interventions_total",
	Help: "Interventions decided, by location and whether the comment was posted",
}, []string{"location", "posted"})

var telemetryFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "toxicbot_telemetry_write_failures_total",
	Help: "Telemetry rows that could not be stored",
})
