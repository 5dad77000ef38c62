package stats

import (
	"math/rand"
	"sort"

	"github.com/opensante/psmap/internal/model"
)

// DefaultSampleSize caps how many points a map scatter layer receives;
// beyond this the browser-side renderer degrades.
const DefaultSampleSize = 10000

// Sample returns ds unchanged when it holds at most max rows, otherwise
// a new snapshot with max rows drawn without replacement. The drawn
// rows keep their source order, and the same seed always draws the same
// rows, so paging a map around does not reshuffle the dots.
func Sample(ds *model.Dataset, max int, seed int64) *model.Dataset {
	if max <= 0 || ds.Len() <= max {
		return ds
	}

	rng := rand.New(rand.NewSource(seed))
	idx := rng.Perm(ds.Len())[:max]
	sort.Ints(idx)

	out := make([]model.Practitioner, 0, max)
	for _, i := range idx {
		out = append(out, ds.Records[i])
	}
	return ds.WithRecords(out)
}
