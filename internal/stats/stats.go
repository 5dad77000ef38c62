package stats

import (
	"sort"

	"github.com/opensante/psmap/internal/model"
)

// Field selects the practitioner column an aggregation runs over.
type Field string

// Aggregatable columns.
const (
	FieldSpecialty  Field = "specialty"
	FieldCity       Field = "city"
	FieldCivility   Field = "civility"
	FieldDepartment Field = "department"
)

// Valid reports whether f names an aggregatable column.
func (f Field) Valid() bool {
	switch f {
	case FieldSpecialty, FieldCity, FieldCivility, FieldDepartment:
		return true
	default:
		return false
	}
}

func (f Field) value(p *model.Practitioner) string {
	switch f {
	case FieldSpecialty:
		return p.Specialty
	case FieldCity:
		return p.City
	case FieldCivility:
		return p.Civility
	case FieldDepartment:
		return p.Department
	default:
		return ""
	}
}

// ValueCount is one column value, how many rows carry it, and its share
// of the snapshot's rows (0..1).
type ValueCount struct {
	Value string  `json:"value"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// Summary is the headline description of one snapshot.
type Summary struct {
	Total             int          `json:"total"`
	Located           int          `json:"located"`
	SkippedRows       int          `json:"skipped_rows"`
	UniqueCities      int          `json:"unique_cities"`
	UniqueSpecialties int          `json:"unique_specialties"`
	Civilities        []ValueCount `json:"civilities"`
}

// Summarize computes the headline counts of a snapshot: row totals,
// how many rows carry coordinates, distinct cities and specialties, and
// the civility breakdown shown as the directory's gender split.
func Summarize(ds *model.Dataset) Summary {
	s := Summary{
		Total:       ds.Len(),
		SkippedRows: ds.SkippedRows,
	}

	cities := make(map[string]struct{})
	specialties := make(map[string]struct{})
	for i := range ds.Records {
		p := &ds.Records[i]
		if p.Located {
			s.Located++
		}
		if p.City != "" {
			cities[p.City] = struct{}{}
		}
		if p.Specialty != "" {
			specialties[p.Specialty] = struct{}{}
		}
	}
	s.UniqueCities = len(cities)
	s.UniqueSpecialties = len(specialties)
	s.Civilities = TopValues(ds, FieldCivility, 0)
	return s
}

// TopValues counts the non-empty values of a column and returns them
// ordered by descending count, capped at n (n <= 0 means all). Ties
// keep the value that appears first in the data ahead, so rankings are
// stable across runs.
func TopValues(ds *model.Dataset, field Field, n int) []ValueCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	for i := range ds.Records {
		v := field.value(&ds.Records[i])
		if v == "" {
			continue
		}
		if _, ok := counts[v]; !ok {
			firstSeen[v] = i
		}
		counts[v]++
	}

	out := make([]ValueCount, 0, len(counts))
	total := ds.Len()
	for v, c := range counts {
		vc := ValueCount{Value: v, Count: c}
		if total > 0 {
			vc.Share = float64(c) / float64(total)
		}
		out = append(out, vc)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Value] < firstSeen[out[j].Value]
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CountByDepartment returns the row count of every department present
// in the snapshot, largest first.
func CountByDepartment(ds *model.Dataset) []ValueCount {
	return TopValues(ds, FieldDepartment, 0)
}
