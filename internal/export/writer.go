package export

import (
	"io"

	"github.com/opensante/psmap/internal/model"
)

// Writer outputs a dataset snapshot in one format. Implementations
// write to the destination they were constructed with, so the same
// code path serves files, stdout and HTTP responses.
type Writer interface {
	// Write outputs the snapshot. Returns the number of bytes written
	// and any error encountered.
	Write(ds *model.Dataset) (int, error)
}

// MultiWriter writes a snapshot to several Writers in turn, for
// outputting to both terminal and file. It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the snapshot to every configured Writer and returns
// the total bytes written.
func (m *MultiWriter) Write(ds *model.Dataset) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(ds)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter carries the shared output destination.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
