package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testFinalizePolicy() SimpleFinalizePolicy {
	return SimpleFinalizePolicy{
		RealtimeMaxBytes: 20,
		RealtimeMaxAgeMs: 10_000,
		BacklogMaxBytes:  100,
		BacklogMaxAgeMs:  60_000,
	}
}

func TestSimpleFinalizePolicy_NoCurrentFile(t *testing.T) {
	p := testFinalizePolicy()
	assert.False(t, p.ShouldFinalize(QueueStats{}, 5000))
}

func TestSimpleFinalizePolicy_SizeThresholdInclusive(t *testing.T) {
	p := testFinalizePolicy()

	stats := QueueStats{CurrentTimestamp: 1000, CurrentSize: 19}
	assert.False(t, p.ShouldFinalize(stats, 1001))

	// Exactly at the threshold triggers: >= rather than >.
	stats.CurrentSize = 20
	assert.True(t, p.ShouldFinalize(stats, 1001))
}

func TestSimpleFinalizePolicy_AgeThresholdInclusive(t *testing.T) {
	p := testFinalizePolicy()

	stats := QueueStats{CurrentTimestamp: 1000, CurrentSize: 1}
	assert.False(t, p.ShouldFinalize(stats, 10_999))
	assert.True(t, p.ShouldFinalize(stats, 11_000))
	assert.True(t, p.ShouldFinalize(stats, 12_000))
}

func TestSimpleFinalizePolicy_BacklogRegime(t *testing.T) {
	p := testFinalizePolicy()

	// Size past the realtime threshold but under the backlog one.
	stats := QueueStats{CurrentTimestamp: 1000, CurrentSize: 50, FinalizedCount: 1}
	assert.False(t, p.ShouldFinalize(stats, 1001))

	stats.CurrentSize = 100
	assert.True(t, p.ShouldFinalize(stats, 1001))

	// Age past the realtime threshold but under the backlog one.
	stats = QueueStats{CurrentTimestamp: 1000, CurrentSize: 1, FinalizedCount: 1}
	assert.False(t, p.ShouldFinalize(stats, 20_000))
	assert.True(t, p.ShouldFinalize(stats, 61_000))
}

func TestSimpleFinalizePolicy_NegativeAgeTreatedAsZero(t *testing.T) {
	p := testFinalizePolicy()

	// Current file created "in the future" relative to now; only size may
	// trigger.
	stats := QueueStats{CurrentTimestamp: 50_000, CurrentSize: 1}
	assert.False(t, p.ShouldFinalize(stats, 1000))

	stats.CurrentSize = 20
	assert.True(t, p.ShouldFinalize(stats, 1000))
}

func TestDefaultFinalizePolicy(t *testing.T) {
	p := DefaultFinalizePolicy()
	assert.Equal(t, uint64(10*1024), p.RealtimeMaxBytes)
	assert.Equal(t, uint64(100*1024), p.BacklogMaxBytes)
	assert.Greater(t, p.BacklogMaxAgeMs, p.RealtimeMaxAgeMs)
}
