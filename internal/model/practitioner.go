package model

import "strings"

// Practitioner is one row of the health-professionals directory.
// Values are immutable once loaded: the filter engine and the stats
// package only ever read them and build new slices.
type Practitioner struct {
	// ID is the 1-based row number within the source file. The upstream
	// CSV carries no stable identifier column, so the position in the
	// snapshot serves as one. IDs are only meaningful within a single
	// dataset snapshot.
	ID int64 `json:"id"`

	// Category is the registry key of the dataset this row came from
	// (e.g. "medecin"). Stamped by the loader, not read from a column.
	Category string `json:"category"`

	// Civility is the honorific recorded by the directory ("M", "MME",
	// "DR", ...). The dashboard uses it as its gender breakdown.
	Civility string `json:"civility,omitempty"`

	// LastName and FirstName identify the professional. These values are
	// personal data; the log package masks them when they appear as log
	// attributes.
	LastName  string `json:"last_name,omitempty"`
	FirstName string `json:"first_name,omitempty"`

	// Specialty is the free-form specialty label from the directory
	// (e.g. "Médecin généraliste").
	Specialty string `json:"specialty,omitempty"`

	// City and PostalCode locate the practice address.
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`

	// Department is the administrative department code derived from the
	// postal code ("75", "2A"-adjacent Corsican codes collapse to "20",
	// overseas codes keep three digits: "971"..."976").
	Department string `json:"department,omitempty"`

	// Latitude and Longitude are enriched from the commune coordinate
	// table keyed by postal code; the source file has no coordinates.
	// They are only meaningful when Located is true.
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	// Located reports whether coordinate enrichment produced a usable
	// position for this row.
	Located bool `json:"located"`

	// Extra holds every source column that has no typed field, keyed by
	// the original CSV header. Kept so exports can reproduce the full
	// source table.
	Extra map[string]string `json:"extra,omitempty"`
}

// FullName returns "LASTNAME Firstname" the way the directory displays
// practitioners, skipping empty parts.
func (p Practitioner) FullName() string {
	switch {
	case p.LastName == "":
		return p.FirstName
	case p.FirstName == "":
		return p.LastName
	default:
		return p.LastName + " " + p.FirstName
	}
}

// DepartmentCode derives the department code from a French postal code.
// Metropolitan codes use the first two digits; overseas codes (97x, 98x)
// keep three. Returns "" when the input is too short to carry one.
func DepartmentCode(postalCode string) string {
	pc := strings.TrimSpace(postalCode)
	if len(pc) < 2 {
		return ""
	}
	if len(pc) >= 3 && (strings.HasPrefix(pc, "97") || strings.HasPrefix(pc, "98")) {
		return pc[:3]
	}
	return pc[:2]
}
