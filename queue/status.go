package queue

import "github.com/c360/fsq/strategy"

// FinalizedStatus is the accounting of all finalized files awaiting
// delivery.
type FinalizedStatus struct {
	// Queue holds the finalized files, oldest first.
	Queue []FileInfo
	// TotalSize is the sum of the sizes of all entries in Queue.
	TotalSize uint64
}

// Status is a snapshot of the queue's in-memory accounting.
type Status struct {
	// CurrentSize is the number of bytes appended to the open current
	// file, zero if none is open.
	CurrentSize uint64
	// CurrentTimestamp is the creation time of the open current file in
	// Unix milliseconds, zero if none is open.
	CurrentTimestamp int64
	// Finalized describes the files awaiting delivery.
	Finalized FinalizedStatus
}

// clone returns a deep copy safe to hand out of the engine's lock.
func (s Status) clone() Status {
	out := s
	out.Finalized.Queue = append([]FileInfo(nil), s.Finalized.Queue...)
	return out
}

// stats converts the status to the snapshot the strategy policies consume.
func (s Status) stats() strategy.QueueStats {
	return strategy.QueueStats{
		CurrentSize:      s.CurrentSize,
		CurrentTimestamp: s.CurrentTimestamp,
		FinalizedCount:   len(s.Finalized.Queue),
		FinalizedBytes:   s.Finalized.TotalSize,
	}
}
