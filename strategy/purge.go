package strategy

// PurgePolicy bounds the on-disk footprint of finalized files. When Overflow
// reports true the engine drops the oldest finalized file and asks again,
// until the predicate clears or the queue is empty.
type PurgePolicy interface {
	Overflow(stats QueueStats) bool
}

// SimplePurgePolicy caps the total finalized bytes and the finalized file
// count. Comparisons are strict: a queue holding exactly MaxFiles files does
// not overflow.
type SimplePurgePolicy struct {
	MaxTotalBytes uint64
	MaxFiles      int
}

// DefaultPurgePolicy keeps at most 1GB of data in at most 1000 files.
func DefaultPurgePolicy() SimplePurgePolicy {
	return SimplePurgePolicy{
		MaxTotalBytes: 1024 * 1024 * 1024,
		MaxFiles:      1000,
	}
}

// Overflow implements PurgePolicy.
func (p SimplePurgePolicy) Overflow(stats QueueStats) bool {
	return stats.FinalizedBytes > p.MaxTotalBytes || stats.FinalizedCount > p.MaxFiles
}
