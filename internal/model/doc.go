// Package model defines the core data structures shared across psmap.
//
// This package contains the following main types:
//   - Practitioner: one row of the health-professionals directory
//   - Dataset: an immutable snapshot of parsed rows plus fetch provenance
//
// Models live in their own package because the dataset, filter, stats,
// export, and server packages all operate on them; centralizing them
// prevents import cycles. All types serialize to JSON for the HTTP API
// and file exports.
package model
