// Package stats computes the aggregates a dashboard renders next to
// the filtered table: headline counts, value breakdowns, department
// totals, a grid heatmap and a bounded point sample for map scatter
// layers.
//
// Everything here is a pure function over a dataset snapshot. Results
// are deterministic: value rankings break count ties by first
// appearance in the data, heatmap cells are emitted in grid order and
// sampling is seeded.
package stats
