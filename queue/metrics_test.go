package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/fsq/metric"
	"github.com/c360/fsq/storage"
)

func TestEngine_MetricsExported(t *testing.T) {
	fs := storage.NewMemFS()
	clock := newMockClock(1001)
	proc := newCollectProcessor(fs)
	registry := metric.NewMetricsRegistry()

	cfg := testConfig(testDir)
	cfg.Name = "events"

	e := newTestEngine(t, cfg, fs, proc, WithClock(clock), WithMetrics(registry))

	require.NoError(t, e.Push([]byte("foo")))
	e.ForceProcessing(true)
	proc.waitCall(t)
	waitStatus(t, e, func(st Status) bool { return len(st.Finalized.Queue) == 0 })

	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	byName := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				byName[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				byName[mf.GetName()] += m.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, float64(1), byName["fsq_messages_appended_total"])
	assert.Equal(t, float64(4), byName["fsq_messages_appended_bytes_total"])
	assert.Equal(t, float64(1), byName["fsq_files_finalized_total"])
	assert.Equal(t, float64(1), byName["fsq_files_delivered_total"])
	assert.Equal(t, float64(0), byName["fsq_queue_depth"])
}
