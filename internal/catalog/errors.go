package catalog

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a catalog extraction failure
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeStructuralInconsistency means the index pointers or the
	// configured trailing extent cannot describe a valid page span.
	ErrorTypeStructuralInconsistency
	// ErrorTypeResourceAcquisition means the manual could not be opened.
	ErrorTypeResourceAcquisition
	// ErrorTypePageFetch means a page referenced by the configuration
	// could not be turned into text.
	ErrorTypePageFetch
)

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeStructuralInconsistency:
		return "STRUCTURAL_INCONSISTENCY"
	case ErrorTypeResourceAcquisition:
		return "RESOURCE_ACQUISITION"
	case ErrorTypePageFetch:
		return "PAGE_FETCH"
	default:
		return "UNKNOWN"
	}
}

// Error is returned by every failing catalog operation
type Error struct {
	Type ErrorType
	Op   string
	// Page is the logical page the failure relates to, 0 when not page bound.
	Page int
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("[%s] %s (page %d): %v", e.Type, e.Op, e.Page, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Type, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// NewStructuralError creates an error for inconsistent index data
func NewStructuralError(op string, page int, format string, args ...any) *Error {
	return &Error{
		Type: ErrorTypeStructuralInconsistency,
		Op:   op,
		Page: page,
		Err:  fmt.Errorf(format, args...),
	}
}

// NewResourceError wraps a failure to acquire the manual
func NewResourceError(op string, err error) *Error {
	return &Error{Type: ErrorTypeResourceAcquisition, Op: op, Err: err}
}

// NewPageFetchError wraps a failure to read the text of a page
func NewPageFetchError(page int, err error) *Error {
	return &Error{Type: ErrorTypePageFetch, Op: "fetch_page", Page: page, Err: err}
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ErrorTypeUnknown
}

// IsStructural reports whether err is a structural inconsistency
func IsStructural(err error) bool {
	return TypeOf(err) == ErrorTypeStructuralInconsistency
}
