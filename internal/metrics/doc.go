// Package metrics exposes the Prometheus instrumentation of the psmap
// backend.
//
// A Collector registers every metric against a registry at startup and
// is handed to the loader and the HTTP server. All observation methods
// are nil-safe, so CLI paths that do not serve /metrics simply pass a
// nil collector.
package metrics
