package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	reportsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scam_reports_submitted_total",
			Help: "Scam reports accepted, by scam type",
		},
		[]string{"type"},
	)

	consolidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scam_consolidations_total",
			Help: "Consolidation outcomes: created, merged, skipped, failed",
		},
		[]string{"outcome"},
	)

	lifecycleTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scam_report_transitions_total",
			Help: "Admin lifecycle transitions applied to reports",
		},
		[]string{"action"},
	)

	statsRecompute = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scam_stats_recompute_duration_seconds",
			Help:    "Time spent recomputing stats snapshots",
			Buckets: prometheus.DefBuckets,
		},
	)

	registry = prometheus.NewRegistry()
)

func init() {
	registry.MustRegister(
		reportsSubmitted,
		consolidations,
		lifecycleTransitions,
		statsRecompute,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func RecordReportSubmitted(scamType string) {
	reportsSubmitted.WithLabelValues(scamType).Inc()
}

func RecordConsolidation(outcome string) {
	consolidations.WithLabelValues(outcome).Inc()
}

func RecordTransition(action string) {
	lifecycleTransitions.WithLabelValues(action).Inc()
}

// StartStatsRecompute returns a func that observes the elapsed time when called.
func StartStatsRecompute() func() {
	timer := prometheus.NewTimer(statsRecompute)
	return func() {
		timer.ObserveDuration()
	}
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
