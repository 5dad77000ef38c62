package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// personalKeys lists attribute keys whose values identify a person in
// the directory. The dataset is personal data under GDPR: individual
// rows may flow through debug logs, but names and contact details must
// not end up in log archives.
var personalKeys = map[string]bool{
	// Identity
	"last_name":  true,
	"lastname":   true,
	"first_name": true,
	"firstname":  true,
	"full_name":  true,
	"name":       true,
	"nom":        true,
	"prenom":     true,

	// Contact
	"phone":     true,
	"telephone": true,
	"email":     true,
	"mail":      true,

	// Practice address (city-level fields stay loggable; the street
	// address pins an individual practice)
	"address":        true,
	"adresse":        true,
	"street":         true,
	"street_address": true,
}

// personalPatterns match values that identify a person regardless of
// the attribute key they appear under.
var personalPatterns = []*regexp.Regexp{
	// Email addresses
	regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`),

	// French phone numbers, with or without separators
	regexp.MustCompile(`^(?:\+33|0)[1-9](?:[ .-]?\d{2}){4}$`),
}

// MaskValue replaces masked attribute values in log output.
const MaskValue = "***MASKED***"

// PrivacyHandler wraps an slog.Handler and masks person-identifying
// attribute values before they reach the underlying handler. It wraps
// rather than replaces so any handler (text, JSON) gets the same
// treatment.
type PrivacyHandler struct {
	handler slog.Handler
}

// NewPrivacyHandler returns a PrivacyHandler wrapping handler. A nil
// handler falls back to slog.Default().Handler().
func NewPrivacyHandler(handler slog.Handler) *PrivacyHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &PrivacyHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *PrivacyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *PrivacyHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs masks the given attributes before adding them.
func (h *PrivacyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &PrivacyHandler{handler: h.handler.WithAttrs(maskedAttrs)}
}

// WithGroup returns a handler scoped to the given group name.
func (h *PrivacyHandler) WithGroup(name string) slog.Handler {
	return &PrivacyHandler{handler: h.handler.WithGroup(name)}
}

// maskAttr masks one attribute, recursing into groups.
func (h *PrivacyHandler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.maskAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	}

	if personalKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString && isPersonalValue(a.Value.String()) {
		return slog.String(a.Key, MaskValue)
	}

	return a
}

// isPersonalValue reports whether a value matches a personal-data
// pattern.
func isPersonalValue(value string) bool {
	for _, pattern := range personalPatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// NewLogger returns a *slog.Logger writing text records to w through a
// PrivacyHandler. verbose selects debug level; the default level is
// Info, quiet enough for CLI use while keeping fetch and serve
// progress visible.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewPrivacyHandler(textHandler))
}

// NewJSONLogger is NewLogger with JSON output, for deployments that
// ship logs to an aggregator.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewPrivacyHandler(jsonHandler))
}
