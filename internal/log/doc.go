// Package log provides privacy-aware logging for psmap.
//
// The health-professionals directory is personal data, and individual
// rows can reach log statements during debugging. PrivacyHandler wraps
// any slog.Handler and masks person-identifying attributes (names,
// street addresses, phone numbers, email addresses) before records are
// written, both by attribute key and by value pattern.
//
// NewLogger and NewJSONLogger build ready-to-use loggers with the
// handler installed; commands set the result as the slog default.
package log
