// Package errors provides error handling for the relaxation data stores.
//
// It re-exports github.com/cockroachdb/errors so every package wraps with
// stack traces and can attach hints for the CLI:
//
//	if err := scan(r); err != nil {
//	    return errors.Wrapf(err, "load %s", src)
//	}
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    // unknown atomic number or subshell pair
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
	Join         = crdb.Join
	Combine      = crdb.CombineErrors
)

// User-facing messages and details
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Sentinel conditions shared by every store. Wrap them to add context;
// callers test with errors.Is.
var (
	// ErrNotFound indicates a lookup matched no record (unknown atomic
	// number or unknown subshell combination).
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates a malformed argument (bad subshell code or label).
	ErrInvalidRequest = New("invalid request")

	// ErrSourceMissing indicates the backing table is absent or not a regular file.
	ErrSourceMissing = New("source table missing")

	// ErrSourceUnreadable indicates the backing table exists but could not be streamed.
	ErrSourceUnreadable = New("source table unreadable")

	// ErrMalformedField indicates a numeric field that failed conversion.
	ErrMalformedField = New("malformed field")
)

// Lookup misses. Both wrap ErrNotFound but stay distinguishable.
var (
	// ErrAtomicNumberNotFound indicates the table has no records for an atomic number.
	ErrAtomicNumberNotFound = Wrap(ErrNotFound, "unknown atomic number")

	// ErrTransitionNotFound indicates the atomic number is known but the subshell combination is not.
	ErrTransitionNotFound = Wrap(ErrNotFound, "unknown transition")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsSourceMissing checks if an error is or wraps ErrSourceMissing
func IsSourceMissing(err error) bool {
	return err != nil && Is(err, ErrSourceMissing)
}

// IsSourceUnreadable checks if an error is or wraps ErrSourceUnreadable
func IsSourceUnreadable(err error) bool {
	return err != nil && Is(err, ErrSourceUnreadable)
}

// IsMalformed checks if an error is or wraps ErrMalformedField
func IsMalformed(err error) bool {
	return err != nil && Is(err, ErrMalformedField)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrapf(ErrNotFound, format, args...)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidRequest, format, args...)
}
