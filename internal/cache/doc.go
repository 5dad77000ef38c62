// Package cache stores fetched dataset payloads keyed by category.
//
// A cache entry is the raw CSV payload of one category plus its fetch
// provenance. Entries are published atomically after a complete fetch
// and never updated in place, so readers see either nothing or a full
// snapshot and no locking is needed beyond each backend's own.
//
// Three backends implement the Store interface:
//   - Memory: process-lifetime map, the default
//   - SQLite: on-disk snapshots that survive restarts
//   - Redis: a shared cache for multi-instance deployments
//
// A miss (absent or expired entry) is reported as a nil entry with a
// nil error; errors mean the backend itself failed.
package cache
