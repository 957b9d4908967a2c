package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salespilot_turns_total",
			Help: "Total number of pipeline turns by outcome.",
		},
		[]string{"outcome"},
	)
	turnDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "salespilot_turn_duration_seconds",
			Help:    "End-to-end latency of a pipeline turn.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)
	queryRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salespilot_query_rejected_total",
			Help: "Candidate queries rejected by the validator, by reason.",
		},
		[]string{"reason"},
	)
	queryDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "salespilot_query_duration_seconds",
			Help:    "Dataset query execution latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	modelRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salespilot_model_request_duration_seconds",
			Help:    "Generative model round-trip latency by pipeline stage.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"stage", "ok"},
	)
)

func init() {
	prometheus.MustRegister(
		turnsTotal,
		turnDurationSeconds,
		queryRejectedTotal,
		queryDurationSeconds,
		modelRequestDurationSeconds,
	)
}

func ObserveTurn(outcome string, elapsed time.Duration) {
	turnsTotal.WithLabelValues(outcome).Inc()
	turnDurationSeconds.Observe(elapsed.Seconds())
}

func ObserveQueryRejected(reason string) {
	queryRejectedTotal.WithLabelValues(reason).Inc()
}

func ObserveQuery(elapsed time.Duration) {
	queryDurationSeconds.Observe(elapsed.Seconds())
}

func ObserveModelRequest(stage string, elapsed time.Duration, ok bool) {
	label := "false"
	if ok {
		label = "true"
	}
	modelRequestDurationSeconds.WithLabelValues(stage, label).Observe(elapsed.Seconds())
}
