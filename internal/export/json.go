package export

import (
	"encoding/json"
	"io"

	"github.com/opensante/psmap/internal/model"
	"github.com/opensante/psmap/internal/stats"
)

// JSONWriter outputs a snapshot as one JSON document with provenance,
// a summary and the rows, for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent bool

	// indentPrefix and indentString configure the indentation.
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed output with the given prefix and
// per-level indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed output with two-space
// indentation. Convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONDocument is the exported document shape.
type JSONDocument struct {
	// Dataset carries the snapshot with its provenance and rows.
	Dataset *model.Dataset `json:"dataset"`

	// Summary is the headline aggregation of the snapshot.
	Summary stats.Summary `json:"summary"`
}

// Write outputs the snapshot as JSON with a trailing newline.
func (w *JSONWriter) Write(ds *model.Dataset) (int, error) {
	doc := JSONDocument{
		Dataset: ds,
		Summary: stats.Summarize(ds),
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(doc, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
