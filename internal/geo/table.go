package geo

import (
	"bytes"
	_ "embed" // for the bundled reference tables
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/opensante/psmap/internal/model"
)

//go:embed data/communes.csv
var communesCSV []byte

//go:embed data/departments.csv
var departmentsCSV []byte

// Precision says how a coordinate was resolved.
type Precision string

const (
	// PrecisionPostal means the postal code had an exact commune entry.
	PrecisionPostal Precision = "postal"
	// PrecisionDepartment means the coordinate is the department centroid.
	PrecisionDepartment Precision = "department"
)

// Table resolves postal codes to coordinates. The zero value is not
// usable; construct with NewTable.
type Table struct {
	communes    map[string]Point
	departments map[string]Point
	names       map[string]string
}

// NewTable returns a Table backed by the embedded commune and
// department reference data.
func NewTable() (*Table, error) {
	t := &Table{
		communes:    make(map[string]Point),
		departments: make(map[string]Point),
		names:       make(map[string]string),
	}
	if err := loadPoints(bytes.NewReader(departmentsCSV), t.departments, t.names); err != nil {
		return nil, fmt.Errorf("load department table: %w", err)
	}
	if err := t.LoadCommunes(bytes.NewReader(communesCSV)); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadCommunes merges additional commune rows into the table. The
// expected format is semicolon-separated postal_code;name;latitude;longitude
// rows; later entries override earlier ones for the same postal code.
// Deployments with a full commune file can load it on top of the
// embedded subset.
func (t *Table) LoadCommunes(r io.Reader) error {
	if err := loadPoints(r, t.communes, nil); err != nil {
		return fmt.Errorf("load commune table: %w", err)
	}
	return nil
}

// Lookup resolves a postal code to a coordinate. Exact commune entries
// win over department centroids.
func (t *Table) Lookup(postalCode string) (Point, Precision, bool) {
	pc := strings.TrimSpace(postalCode)
	if p, ok := t.communes[pc]; ok {
		return p, PrecisionPostal, true
	}
	if dep := model.DepartmentCode(pc); dep != "" {
		if p, ok := t.departments[dep]; ok {
			return p, PrecisionDepartment, true
		}
	}
	return Point{}, "", false
}

// DepartmentName returns the administrative name for a department code,
// or "" when the code is unknown.
func (t *Table) DepartmentName(code string) string {
	return t.names[strings.TrimSpace(code)]
}

// Communes returns the number of exact postal-code entries loaded.
func (t *Table) Communes() int { return len(t.communes) }

// Annotate fills the coordinate fields of every record whose postal
// code resolves, leaving the others unlocated, and returns the number
// of located records. Department is stamped for every record with a
// parseable postal code, located or not.
func (t *Table) Annotate(records []model.Practitioner) int {
	located := 0
	for i := range records {
		records[i].Department = model.DepartmentCode(records[i].PostalCode)
		p, _, ok := t.Lookup(records[i].PostalCode)
		if !ok {
			continue
		}
		records[i].Latitude = p.Lat
		records[i].Longitude = p.Lon
		records[i].Located = true
		located++
	}
	return located
}

// loadPoints reads semicolon-separated code;name;latitude;longitude rows
// into dst. Rows whose coordinates do not parse are skipped, which also
// covers the header line. names may be nil when the label column is not
// needed.
func loadPoints(r io.Reader, dst map[string]Point, names map[string]string) error {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(rec) < 4 {
			continue
		}
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		code := strings.TrimSpace(rec[0])
		if code == "" {
			continue
		}
		dst[code] = Point{Lat: lat, Lon: lon}
		if names != nil {
			names[code] = strings.TrimSpace(rec[1])
		}
	}
}
