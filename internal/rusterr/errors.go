// Package rusterr defines the fatal error kinds the resolver and
// façade can raise, and an ordered, deduplication-free warning
// collector for the non-fatal fallback path (spec §4.2.10, §7).
package rusterr

import "fmt"

// TypeNotFoundError is raised when a named declaration cannot be
// located by the Host Query API (spec §4.2.2 step 2, §7).
type TypeNotFoundError struct {
	Name string
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("type not found: %q", e.Name)
}

// NonSerializableError is raised for constructs categorically
// unrepresentable in JSON — Promise<T> and similar (spec §4.2.5 rule
// 11, §7).
type NonSerializableError struct {
	Name string
}

func (e *NonSerializableError) Error() string {
	return fmt.Sprintf("type %q is not serializable to JSON", e.Name)
}

// TypeConversionError is raised in strict mode whenever the resolver
// would otherwise fall back to json_value (spec §4.2.10, §7).
type TypeConversionError struct {
	TypeName string
	Reason   string
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q: %s", e.TypeName, e.Reason)
}

// HostQueryError wraps a failure surfaced unchanged from the Host
// Query API (spec §4.2.11, §7).
type HostQueryError struct {
	Err error
}

func (e *HostQueryError) Error() string {
	return fmt.Sprintf("host query failed: %v", e.Err)
}

func (e *HostQueryError) Unwrap() error { return e.Err }
