package alias

import (
	"errors"
	"fmt"
)

// ResolveError represents a failure detected during alias resolution.
//
// Resolution errors include:
//   - Invalid pattern: an alias regex failed to compile at registration
//   - Recursion limit: a resolution chain exceeded the lookup bound
//   - Unknown variable: a name matches no alias and no raw column
//   - Unresolved name / missing column: internal consistency failures
//     between the discovery and evaluation passes
//
// ResolveError includes structured fields for diagnostics.
type ResolveError struct {
	// Code identifies the error category.
	Code ResolveErrorCode

	// Message is a human-readable description.
	Message string

	// Name is the variable name the error is attributed to.
	Name string

	// Session identifies the fetch invocation, for log correlation.
	Session string
}

// ResolveErrorCode categorizes resolution errors.
type ResolveErrorCode string

const (
	// ErrCodeInvalidPattern indicates a malformed alias regex.
	ErrCodeInvalidPattern ResolveErrorCode = "INVALID_PATTERN"

	// ErrCodeRecursionLimit indicates a resolution chain exceeded the
	// lookup bound, usually a self-referential alias.
	ErrCodeRecursionLimit ResolveErrorCode = "RECURSION_LIMIT"

	// ErrCodeUnknownVariable indicates a name that matches no alias and
	// is not a raw column of the source.
	ErrCodeUnknownVariable ResolveErrorCode = "UNKNOWN_VARIABLE"

	// ErrCodeUnresolvedName indicates the evaluation pass asked for a
	// name the discovery pass never resolved. Always a sequencing bug.
	ErrCodeUnresolvedName ResolveErrorCode = "UNRESOLVED_NAME"

	// ErrCodeMissingColumn indicates the fetched table lacks a raw
	// column the discovery pass required. Always a sequencing bug.
	ErrCodeMissingColumn ResolveErrorCode = "MISSING_COLUMN"
)

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if e.Name != "" && e.Session != "" {
		return fmt.Sprintf("%s: %s (name=%q, session=%s)", e.Code, e.Message, e.Name, e.Session)
	}
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (name=%q)", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidPattern returns true for alias registration failures.
// Uses errors.As to handle wrapped errors.
func IsInvalidPattern(err error) bool {
	return hasCode(err, ErrCodeInvalidPattern)
}

// IsRecursionLimit returns true if the error is a recursion guard trip.
func IsRecursionLimit(err error) bool {
	return hasCode(err, ErrCodeRecursionLimit)
}

// IsUnknownVariable returns true if the error names an unknown variable.
func IsUnknownVariable(err error) bool {
	return hasCode(err, ErrCodeUnknownVariable)
}

// IsUnresolvedName returns true for discovery/evaluation divergence.
func IsUnresolvedName(err error) bool {
	return hasCode(err, ErrCodeUnresolvedName)
}

// IsMissingColumn returns true if the fetched table lacked a required column.
func IsMissingColumn(err error) bool {
	return hasCode(err, ErrCodeMissingColumn)
}

func hasCode(err error, code ResolveErrorCode) bool {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// newInvalidPatternError creates a ResolveError for a bad alias regex.
func newInvalidPatternError(pattern string, cause error) *ResolveError {
	return &ResolveError{
		Code:    ErrCodeInvalidPattern,
		Message: fmt.Sprintf("alias pattern does not compile: %v", cause),
		Name:    pattern,
	}
}

// newRecursionLimitError creates a ResolveError for a lookup-bound trip.
func newRecursionLimitError(session, name string, limit int) *ResolveError {
	return &ResolveError{
		Code:    ErrCodeRecursionLimit,
		Message: fmt.Sprintf("alias resolution exceeded %d lookups; alias chain for %q is likely self-referential", limit, name),
		Name:    name,
		Session: session,
	}
}

// newUnknownVariableError creates a ResolveError for an unknown name.
func newUnknownVariableError(session, name string) *ResolveError {
	return &ResolveError{
		Code:    ErrCodeUnknownVariable,
		Message: "name matches no alias and is not a valid variable",
		Name:    name,
		Session: session,
	}
}

// newUnresolvedNameError creates a ResolveError for a name the
// discovery pass never saw.
func newUnresolvedNameError(session, name string) *ResolveError {
	return &ResolveError{
		Code:    ErrCodeUnresolvedName,
		Message: "name was not resolved before evaluation",
		Name:    name,
		Session: session,
	}
}

// newMissingColumnError creates a ResolveError for a raw column the
// fetch step omitted.
func newMissingColumnError(session, name string) *ResolveError {
	return &ResolveError{
		Code:    ErrCodeMissingColumn,
		Message: "fetched table lacks a required raw column",
		Name:    name,
		Session: session,
	}
}
