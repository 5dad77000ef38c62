package filter

import (
	"strings"

	"github.com/opensante/psmap/internal/geo"
	"github.com/opensante/psmap/internal/model"
)

// FloatRange is an inclusive numeric interval.
type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in the interval, ends included.
func (r FloatRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Criteria is one user selection: every non-zero field becomes a
// predicate and rows must satisfy all of them. The zero value matches
// everything. Criteria are ephemeral; build one per interaction and
// discard it after Apply.
type Criteria struct {
	// Exact-match fields. Matching ignores case and surrounding
	// whitespace, except PostalCode which matches exactly as written.
	Category   string
	Specialty  string
	Civility   string
	City       string
	PostalCode string
	Department string
	LastName   string
	FirstName  string

	// Query is a free-text search: a case-insensitive substring match
	// across last name, first name, city and postal code.
	Query string

	// Bounds keeps only located rows whose coordinates fall inside the
	// box, edges included.
	Bounds *geo.Bounds

	// LatRange and LonRange keep only located rows whose coordinate
	// falls in the inclusive interval.
	LatRange *FloatRange
	LonRange *FloatRange

	// WithCoordinates keeps only rows that were successfully located.
	WithCoordinates bool
}

// normalized returns a copy with string predicates trimmed and the
// query lowercased, so the per-row match loop does no re-cleaning.
func (c Criteria) normalized() Criteria {
	c.Category = strings.TrimSpace(c.Category)
	c.Specialty = strings.TrimSpace(c.Specialty)
	c.Civility = strings.TrimSpace(c.Civility)
	c.City = strings.TrimSpace(c.City)
	c.PostalCode = strings.TrimSpace(c.PostalCode)
	c.Department = strings.TrimSpace(c.Department)
	c.LastName = strings.TrimSpace(c.LastName)
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.Query = strings.ToLower(strings.TrimSpace(c.Query))
	return c
}

// matches reports whether p satisfies every active predicate. Criteria
// must already be normalized.
func (c Criteria) matches(p *model.Practitioner) bool {
	if !fieldMatches(c.Category, p.Category) {
		return false
	}
	if !fieldMatches(c.Specialty, p.Specialty) {
		return false
	}
	if !fieldMatches(c.Civility, p.Civility) {
		return false
	}
	if !fieldMatches(c.City, p.City) {
		return false
	}
	if !fieldMatches(c.Department, p.Department) {
		return false
	}
	if !fieldMatches(c.LastName, p.LastName) {
		return false
	}
	if !fieldMatches(c.FirstName, p.FirstName) {
		return false
	}
	if c.PostalCode != "" && c.PostalCode != p.PostalCode {
		return false
	}
	if c.Query != "" && !queryMatches(c.Query, p) {
		return false
	}
	if c.WithCoordinates && !p.Located {
		return false
	}
	if c.Bounds != nil {
		if !p.Located || !c.Bounds.Contains(geo.Point{Lat: p.Latitude, Lon: p.Longitude}) {
			return false
		}
	}
	if c.LatRange != nil && (!p.Located || !c.LatRange.Contains(p.Latitude)) {
		return false
	}
	if c.LonRange != nil && (!p.Located || !c.LonRange.Contains(p.Longitude)) {
		return false
	}
	return true
}

// fieldMatches is the exact-match predicate: an empty want imposes no
// constraint, anything else compares case-insensitively.
func fieldMatches(want, got string) bool {
	if want == "" {
		return true
	}
	return strings.EqualFold(want, got)
}

// queryMatches reports whether the lowercased query occurs in any of
// the searchable columns.
func queryMatches(query string, p *model.Practitioner) bool {
	for _, field := range []string{p.LastName, p.FirstName, p.City, p.PostalCode} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
