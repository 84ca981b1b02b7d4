package domain

import (
	"errors"
	"strings"
)

// Error kinds shared by every service. Handlers match them with errors.Is.
var (
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrProfileRequired      = errors.New("profile required")
	ErrDuplicateApplication = errors.New("duplicate application")
	ErrRateLimited          = errors.New("rate limited")
)

// Error attaches a user-facing message to one of the error kinds above
type Error struct {
	Kind error  // One of the Err* sentinels
	Msg  string // Safe to return to the caller
}

func (e *Error) Error() string { return e.Msg }

// Is lets errors.Is match on the kind
func (e *Error) Is(target error) bool { return e.Kind == target }

// Unwrap returns the kind
func (e *Error) Unwrap() error { return e.Kind }

// NotFound reports that resource (e.g. "Job") does not exist
func NotFound(resource string) error {
	return &Error{Kind: ErrNotFound, Msg: resource + " not found"}
}

// Forbidden reports a role or ownership mismatch
func Forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Msg: msg}
}

// Unauthenticated reports a missing or invalid credential
func Unauthenticated(msg string) error {
	return &Error{Kind: ErrUnauthenticated, Msg: msg}
}

// ProfileRequired reports that the caller has no profile of the given role
func ProfileRequired(role Role) error {
	name := string(role)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return &Error{Kind: ErrProfileRequired, Msg: name + " profile not found"}
}

// DuplicateApplication reports a second application to the same listing
func DuplicateApplication(kind ListingKind) error {
	return &Error{Kind: ErrDuplicateApplication, Msg: "Already applied to this " + string(kind)}
}

// FieldError describes one invalid input field
type FieldError struct {
	Param string `json:"param"` // JSON path of the field, e.g. requirements.skills
	Msg   string `json:"msg"`   // Human readable message
}

// ValidationError carries every field error found in one input
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Param+": "+fe.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Invalid builds a ValidationError for a single field
func Invalid(param, msg string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Param: param, Msg: msg}}}
}

// StoreError wraps a persistence failure. Its cause is for logs only.
type StoreError struct {
	Op  string // Operation that failed, e.g. "create job"
	Err error  // Underlying driver error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }

// Unwrap returns the underlying cause
func (e *StoreError) Unwrap() error { return e.Err }
