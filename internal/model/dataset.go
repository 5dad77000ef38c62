package model

import "time"

// Dataset is an immutable snapshot of one category's directory file:
// the parsed rows plus provenance describing where and when they were
// fetched. Consumers must not mutate Records; derive subsets with
// WithRecords instead.
type Dataset struct {
	// Category is the registry key the snapshot was loaded for.
	Category string `json:"category"`

	// Source is the URL the payload was fetched from.
	Source string `json:"source"`

	// FetchedAt is when the payload left the origin (or, for cache hits,
	// when the cached copy was originally fetched).
	FetchedAt time.Time `json:"fetched_at"`

	// FromCache reports whether the payload was served from the local
	// cache rather than the origin.
	FromCache bool `json:"from_cache"`

	// Columns lists the source CSV headers in file order.
	Columns []string `json:"columns"`

	// SkippedRows counts malformed source rows dropped during parsing.
	SkippedRows int `json:"skipped_rows"`

	// Records holds the parsed rows in file order.
	Records []Practitioner `json:"records"`
}

// Len returns the number of rows in the snapshot.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// WithRecords returns a copy of the snapshot carrying the given rows in
// place of the original ones. Provenance fields are preserved so a
// filtered view still reports where its data came from.
func (d *Dataset) WithRecords(records []Practitioner) *Dataset {
	out := *d
	out.Records = records
	return &out
}
