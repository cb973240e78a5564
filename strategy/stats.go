package strategy

// QueueStats is the snapshot of queue accounting handed to finalize and
// purge policies. CurrentSize and CurrentTimestamp are zero when no current
// file is open.
type QueueStats struct {
	// CurrentSize is the number of bytes appended to the open current file.
	CurrentSize uint64
	// CurrentTimestamp is the creation time of the open current file in
	// Unix milliseconds.
	CurrentTimestamp int64
	// FinalizedCount is the number of finalized files awaiting delivery.
	FinalizedCount int
	// FinalizedBytes is the total size of all finalized files awaiting
	// delivery.
	FinalizedBytes uint64
}

// Backlog reports whether any finalized files are queued.
func (s QueueStats) Backlog() bool {
	return s.FinalizedCount > 0
}
