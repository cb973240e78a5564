// Package strategy defines the pluggable policies of the queue engine:
// file naming, message appending, finalization, and purging.
//
// Each policy is a small capability interface with a default implementation
// mirroring the engine's stock behavior:
//
//   - Naming: bidirectional mapping between filenames and timestamps
//     (current-<20 digits>.bin / finalized-<20 digits>.bin)
//   - Appender: payload plus a single separator byte
//   - FinalizePolicy: size/age thresholds with a backlog regime
//   - PurgePolicy: total-bytes and file-count ceilings
//
// Policies are consulted by the engine under its state lock and must not
// block. They receive a QueueStats snapshot rather than live state.
package strategy
