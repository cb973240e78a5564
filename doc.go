// Package fsq provides a durable, filesystem-backed message queue with
// FIFO file delivery to a user-supplied processor.
//
// # Philosophy
//
// FSQ buffers messages produced by one process into append-only files and
// hands complete, immutable files — not individual messages — to a
// processor. The unit of delivery is the file: this keeps the hot path a
// plain buffered append, makes durability a single atomic rename, and lets
// the processor batch its work (upload, archive, import) at file
// granularity.
//
// FSQ MUST NOT contain:
//   - Network transport (processors own their transport)
//   - Multi-process producer coordination
//   - Payload encryption or compression
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│            Engine                   │  Push / ForceProcessing /
//	│   (queue/: state + strategies)      │  Status / Shutdown
//	└─────────────────────────────────────┘
//	           ↓ finalize = atomic rename
//	┌─────────────────────────────────────┐
//	│          Worker goroutine           │  startup scan, FIFO
//	│   (dispatch, retry, purge, resume)  │  delivery, backoff
//	└─────────────────────────────────────┘
//	           ↓ one file at a time
//	┌─────────────────────────────────────┐
//	│           Processor                 │  Success / SuccessAndMoved /
//	│  (processor/movefile, /objectstore) │  Unavailable / FailureNeedRetry
//	└─────────────────────────────────────┘
//
// # Package Map
//
//   - queue: the coordination core — Engine, Worker, queue status
//   - strategy: pluggable naming, append, finalize, and purge policies
//   - storage: the filesystem backend interface, OS and in-memory backends
//   - config: construction-time configuration, JSON/YAML loading
//   - errors: classified error handling (transient / invalid / fatal)
//   - metric: Prometheus metrics registry and core queue metrics
//   - pkg/retry: exponential backoff — one-shot Do and the worker's Schedule
//   - pkg/timestamp: canonical millisecond timestamps and the Clock adapter
//   - processor/movefile: archive processor (SuccessAndMoved)
//   - processor/objectstore: NATS JetStream ObjectStore uploader
//   - cmd/fsq: demo binary tailing stdin into a queue
//
// # Quick Start
//
//	cfg := config.DefaultConfig()
//	cfg.WorkingDirectory = "/var/lib/myapp/queue"
//
//	engine, err := queue.New(cfg, myProcessor)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Shutdown()
//
//	engine.Push([]byte(`{"sensor":"temp-1","value":22.5}`))
package fsq
