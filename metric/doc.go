// Package metric provides Prometheus-based metrics collection for queue
// monitoring and observability.
//
// The package offers a centralized metrics registry managing both core queue
// metrics (appends, finalizations, deliveries, purges, depth) and custom
// metrics registered by processors or embedding applications.
//
// # Basic Usage
//
// Setting up metrics collection:
//
//	registry := metric.NewMetricsRegistry()
//
//	// Record core queue metrics
//	core := registry.CoreMetrics()
//	core.RecordAppend("events", 12)
//	core.RecordDelivery("events", "success", 80*time.Millisecond)
//
// Expose registry.PrometheusRegistry() through promhttp in the embedding
// application to serve the metrics endpoint.
//
// # Core Metrics
//
// All core metrics carry a "queue" label (the queue instance name) under the
// "fsq" namespace:
//
//   - messages appended and bytes appended (counters)
//   - files finalized, delivered by result, purged (counters)
//   - delivery duration (histogram) and delivery retries (counter)
//   - finalized queue depth and bytes (gauges)
//   - worker state (gauge, numeric worker state)
//   - errors by type (counter)
//
// # Custom Metrics
//
// Processors register their own collectors through the MetricsRegistrar
// interface; duplicate registrations are rejected with invalid-class errors.
package metric
