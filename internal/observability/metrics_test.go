package observability

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, g interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()

	metric := &dto.Metric{}
	require.NoError(t, g.Write(metric))
	require.NotNil(t, metric.GetGauge())
	return metric.GetGauge().GetValue()
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()

	metric := &dto.Metric{}
	require.NoError(t, c.Write(metric))
	require.NotNil(t, metric.GetCounter())
	return metric.GetCounter().GetValue()
}

func TestSubmissionWatermarkIgnoresZeroTime(t *testing.T) {
	ts := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	RecordSubmissionPersisted(ts)
	require.Equal(t, float64(ts.Unix()), gaugeValue(t, submissionPersistGauge))

	RecordSubmissionPersisted(time.Time{})
	require.Equal(t, float64(ts.Unix()), gaugeValue(t, submissionPersistGauge))
}

func TestLeaderboardWatermark(t *testing.T) {
	ts := time.Date(2026, time.March, 14, 12, 30, 0, 0, time.UTC)
	RecordLeaderboardUpdate(ts)
	require.Equal(t, float64(ts.Unix()), gaugeValue(t, leaderboardUpdateGauge))
}

func TestCountersIncrement(t *testing.T) {
	before := counterValue(t, projectionsTotal)
	RecordProjectionComputed()
	require.Equal(t, before+1, counterValue(t, projectionsTotal))

	before = counterValue(t, tableFallbacksTotal)
	RecordTableLoadFallback()
	require.Equal(t, before+1, counterValue(t, tableFallbacksTotal))
}
