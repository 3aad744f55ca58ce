package rusterr

import "fmt"

// Warnings accumulates fallback and recoverable-condition messages in
// occurrence order. Unlike a log, it never deduplicates (spec §4.2.10:
// "Warnings are deduplication-free and ordered by occurrence") — the
// same fallback reached twice in one run, at two different use sites,
// produces two warnings, which is the point: each tells the caller
// where in the source the fallback happened.
type Warnings struct {
	strict   bool
	messages []string
}

// NewWarnings creates a collector. When strict is true, Fallback
// returns a *TypeConversionError instead of recording a warning.
func NewWarnings(strict bool) *Warnings {
	return &Warnings{strict: strict}
}

// Add appends a warning unconditionally (used for non-fallback
// advisories, e.g. "alias X not collected because one of its
// variants is unresolvable").
func (w *Warnings) Add(format string, args ...any) {
	w.messages = append(w.messages, fmt.Sprintf(format, args...))
}

// Fallback records (or refuses, in strict mode) the construction of a
// json_value sentinel. typeName identifies the declaration or
// property being resolved; reason is a short human-readable cause.
// Returns an error only in strict mode (spec §4.2.10).
func (w *Warnings) Fallback(typeName, reason string) error {
	if w.strict {
		return &TypeConversionError{TypeName: typeName, Reason: reason}
	}
	w.Add("%s: %s", typeName, reason)
	return nil
}

// Strict reports whether this collector is operating in strict mode.
func (w *Warnings) Strict() bool { return w.strict }

// All returns the accumulated warnings in occurrence order.
func (w *Warnings) All() []string {
	return w.messages
}
