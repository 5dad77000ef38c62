package dataset

import "errors"

var (
	// ErrSourceUnavailable is returned when a category's extract could
	// not be retrieved: connection failure, timeout or a non-2xx
	// response from the origin.
	ErrSourceUnavailable = errors.New("dataset source unavailable")

	// ErrParse is returned when retrieved content does not look like a
	// directory extract: unreadable header, or no known column at all.
	// Individual malformed data lines are skipped and counted, not
	// errors.
	ErrParse = errors.New("dataset parse error")
)
