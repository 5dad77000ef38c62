package filter

import "github.com/opensante/psmap/internal/model"

// Apply returns a new snapshot holding the rows of ds that satisfy
// every active predicate in criteria, in their original order. The
// input snapshot is never modified: the result always carries a fresh
// record slice, so callers may hand it off or re-filter it freely.
func Apply(ds *model.Dataset, criteria Criteria) *model.Dataset {
	crit := criteria.normalized()

	out := make([]model.Practitioner, 0, len(ds.Records))
	for i := range ds.Records {
		if crit.matches(&ds.Records[i]) {
			out = append(out, ds.Records[i])
		}
	}
	return ds.WithRecords(out)
}
