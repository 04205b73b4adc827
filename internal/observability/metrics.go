package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	submissionPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "futureme_service",
		Subsystem: "persistence",
		Name:      "last_submission_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent habit submission written to storage.",
	})
	leaderboardUpdateGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "futureme_service",
		Subsystem: "persistence",
		Name:      "last_leaderboard_update_timestamp_seconds",
		Help:      "Unix timestamp of the most recent leaderboard score write.",
	})
	projectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "futureme_service",
		Subsystem: "projection",
		Name:      "projections_computed_total",
		Help:      "Number of single-horizon projections computed.",
	})
	tableFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "futureme_service",
		Subsystem: "persistence",
		Name:      "table_load_fallbacks_total",
		Help:      "Number of reads that served an empty table because the backing file was unparsable.",
	})
)

func init() {
	prometheus.MustRegister(submissionPersistGauge, leaderboardUpdateGauge, projectionsTotal, tableFallbacksTotal)
}

// RecordSubmissionPersisted updates the persistence watermark gauge.
func RecordSubmissionPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	submissionPersistGauge.Set(float64(ts.Unix()))
}

// RecordLeaderboardUpdate updates the leaderboard watermark gauge.
func RecordLeaderboardUpdate(ts time.Time) {
	if ts.IsZero() {
		return
	}
	leaderboardUpdateGauge.Set(float64(ts.Unix()))
}

// RecordProjectionComputed counts one computed projection.
func RecordProjectionComputed() {
	projectionsTotal.Inc()
}

// RecordTableLoadFallback counts one corrupt-table empty fallback.
func RecordTableLoadFallback() {
	tableFallbacksTotal.Inc()
}
