package export

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/opensante/psmap/internal/model"
)

// typedColumns is the fixed leading part of an exported table, in
// output order. Extra columns follow, sorted by header.
var typedColumns = []string{
	"id",
	"category",
	"civility",
	"last_name",
	"first_name",
	"specialty",
	"city",
	"postal_code",
	"department",
	"latitude",
	"longitude",
}

// CSVWriter writes a snapshot back out as a semicolon-separated table:
// the typed columns first, then every Extra column present anywhere in
// the snapshot. This is the download surface of the dashboard.
type CSVWriter struct {
	baseWriter

	// separator is the output field separator. Defaults to the
	// semicolon the source files use.
	separator rune
}

// CSVWriterOption configures a CSVWriter.
type CSVWriterOption func(*CSVWriter)

// WithSeparator sets the output field separator.
func WithSeparator(sep rune) CSVWriterOption {
	return func(w *CSVWriter) {
		if sep != 0 {
			w.separator = sep
		}
	}
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer, opts ...CSVWriterOption) *CSVWriter {
	w := &CSVWriter{
		baseWriter: newBaseWriter(output),
		separator:  ';',
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the snapshot as CSV. Unlocated rows leave the
// coordinate columns empty rather than carrying a fake zero position.
func (w *CSVWriter) Write(ds *model.Dataset) (int, error) {
	counting := &countingWriter{w: w.output}
	cw := csv.NewWriter(counting)
	cw.Comma = w.separator

	extraCols := collectExtraColumns(ds)
	header := append(append([]string{}, typedColumns...), extraCols...)
	if err := cw.Write(header); err != nil {
		return counting.n, err
	}

	row := make([]string, 0, len(header))
	for i := range ds.Records {
		p := &ds.Records[i]

		lat, lon := "", ""
		if p.Located {
			lat = strconv.FormatFloat(p.Latitude, 'f', -1, 64)
			lon = strconv.FormatFloat(p.Longitude, 'f', -1, 64)
		}

		row = row[:0]
		row = append(row,
			strconv.FormatInt(p.ID, 10),
			p.Category,
			p.Civility,
			p.LastName,
			p.FirstName,
			p.Specialty,
			p.City,
			p.PostalCode,
			p.Department,
			lat,
			lon,
		)
		for _, col := range extraCols {
			row = append(row, p.Extra[col])
		}
		if err := cw.Write(row); err != nil {
			return counting.n, err
		}
	}

	cw.Flush()
	return counting.n, cw.Error()
}

// collectExtraColumns returns the union of Extra keys in the snapshot,
// sorted for a stable header.
func collectExtraColumns(ds *model.Dataset) []string {
	seen := make(map[string]struct{})
	for i := range ds.Records {
		for col := range ds.Records[i].Extra {
			seen[col] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// countingWriter tracks bytes written through it.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
