package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/opensante/psmap/internal/model"
)

// columnAliases maps the typed Practitioner fields to the header names
// that carry them. The annuaire extracts use the ps_activite_* and
// coordonnees_* names; the shorter forms appear in older extracts and
// in hand-made registry additions.
var columnAliases = map[string][]string{
	"civility":    {"ps_activite_civilite", "civilite"},
	"last_name":   {"ps_activite_nom", "nom"},
	"first_name":  {"ps_activite_prenom", "prenom"},
	"specialty":   {"specialite_libelle", "specialite", "type_ps_libelle", "profession"},
	"city":        {"coordonnees_ville", "ville", "commune"},
	"postal_code": {"coordonnees_code_postal", "code_postal"},
}

// Parse reads a decoded extract into a snapshot: typed fields for the
// known columns, everything else preserved under Extra by its original
// header. Data lines whose field count does not match the header are
// skipped and counted. An unreadable header, or a header without a
// single known column, fails with ErrParse. The caller stamps
// provenance (category, source, fetch time) afterwards.
func Parse(text string, sep rune) (*model.Dataset, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	// Map each column index to its typed field, or "" for Extra.
	fields := make([]string, len(header))
	known := 0
	claimed := make(map[string]bool, len(columnAliases))
	for i, col := range header {
		name := normalizeHeader(col)
		for field, aliases := range columnAliases {
			if claimed[field] {
				continue
			}
			for _, alias := range aliases {
				if name == alias {
					fields[i] = field
					claimed[field] = true
					known++
					break
				}
			}
			if fields[i] != "" {
				break
			}
		}
	}
	if known == 0 {
		return nil, fmt.Errorf("%w: no known column in header %v", ErrParse, header)
	}

	ds := &model.Dataset{
		Columns: header,
		Records: []model.Practitioner{},
	}

	for {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				ds.SkippedRows++
				continue
			}
			return nil, fmt.Errorf("%w: read data rows: %v", ErrParse, err)
		}

		if isBlank(row) {
			continue
		}
		if len(row) != len(header) {
			ds.SkippedRows++
			continue
		}

		p := model.Practitioner{ID: int64(len(ds.Records)) + 1}
		for i, raw := range row {
			value := strings.TrimSpace(raw)
			switch fields[i] {
			case "civility":
				p.Civility = value
			case "last_name":
				p.LastName = value
			case "first_name":
				p.FirstName = value
			case "specialty":
				p.Specialty = value
			case "city":
				p.City = value
			case "postal_code":
				p.PostalCode = value
			default:
				if value != "" {
					if p.Extra == nil {
						p.Extra = make(map[string]string)
					}
					p.Extra[header[i]] = value
				}
			}
		}
		ds.Records = append(ds.Records, p)
	}
	return ds, nil
}

// readHeader returns the first non-blank line as the column list.
func readHeader(r *csv.Reader) ([]string, error) {
	for {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: empty payload", ErrParse)
			}
			return nil, fmt.Errorf("%w: read header: %v", ErrParse, err)
		}
		if isBlank(row) {
			continue
		}
		header := make([]string, len(row))
		for i, col := range row {
			header[i] = strings.TrimSpace(col)
		}
		return header, nil
	}
}

// normalizeHeader prepares a column name for alias matching.
func normalizeHeader(col string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\uFEFF")))
}

// isBlank reports whether every field of a row is empty.
func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
