// Package geo resolves French postal codes to map coordinates.
//
// The directory files carry a practice address but no coordinates, so
// map views need an enrichment step. This package provides:
//   - Point and Bounds: WGS84 coordinate types shared by the stats and
//     server packages
//   - Table: two-tier postal-code lookup backed by embedded reference
//     data, extensible with an external CSV file
//
// Lookup tries exact postal-code entries (major communes) first, then
// falls back to the centroid of the department derived from the postal
// prefix. Records that resolve to neither stay unlocated and are
// excluded from map views, never from lists or counts.
package geo
