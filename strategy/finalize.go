package strategy

// FinalizePolicy decides, after each append, whether the current file should
// be rolled over into a finalized file.
type FinalizePolicy interface {
	ShouldFinalize(stats QueueStats, now int64) bool
}

// SimpleFinalizePolicy keys its thresholds on whether a backlog of finalized
// files exists. With no backlog it rolls small files often; with a backlog it
// coalesces work into fewer, larger files so a stuck consumer does not
// multiply the file count. All sizes are bytes, all ages milliseconds, and
// comparisons are inclusive: a file of exactly RealtimeMaxBytes rolls.
type SimpleFinalizePolicy struct {
	RealtimeMaxBytes uint64
	RealtimeMaxAgeMs int64
	BacklogMaxBytes  uint64
	BacklogMaxAgeMs  int64
}

// DefaultFinalizePolicy keeps files around 10KB / 10 minutes while the queue
// is draining, and around 100KB / 24 hours once a backlog builds up.
func DefaultFinalizePolicy() SimpleFinalizePolicy {
	return SimpleFinalizePolicy{
		RealtimeMaxBytes: 10 * 1024,
		RealtimeMaxAgeMs: 10 * 60 * 1000,
		BacklogMaxBytes:  100 * 1024,
		BacklogMaxAgeMs:  24 * 60 * 60 * 1000,
	}
}

// ShouldFinalize implements FinalizePolicy.
func (p SimpleFinalizePolicy) ShouldFinalize(stats QueueStats, now int64) bool {
	if stats.CurrentTimestamp == 0 {
		return false
	}
	age := now - stats.CurrentTimestamp
	if age < 0 {
		// The clock ran backwards; a negative age counts as zero.
		age = 0
	}
	if stats.Backlog() {
		return stats.CurrentSize >= p.BacklogMaxBytes || age >= p.BacklogMaxAgeMs
	}
	return stats.CurrentSize >= p.RealtimeMaxBytes || age >= p.RealtimeMaxAgeMs
}
