// Package errors provides error handling for ceka.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints for user-facing messages
//   - Marking errors so errors.Is matches a sentinel without changing the text
//
// Usage:
//
//	// Wrap with context
//	if err := ds.IntegrityCheck(); err != nil {
//	    return errors.Wrap(err, "imported dataset failed integrity check")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "pass parameters as -p=key:value")
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
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Assertions
var (
	AssertionFailedf   = crdb.AssertionFailedf
	IsAssertionFailure = crdb.IsAssertionFailure
)

// Sentinel errors shared across ceka.
// Wrap or Mark these to add context while keeping errors.Is working.
var (
	// ErrInvalidOption indicates a missing or malformed command line option
	ErrInvalidOption = New("invalid option")

	// ErrMalformedParameter indicates a parameter token without a key:value shape
	ErrMalformedParameter = New("malformed parameter")

	// ErrUnsupported indicates an algorithm, function or format ceka does not know
	ErrUnsupported = New("unsupported")

	// ErrIntegrity indicates a dataset that violates its own header
	ErrIntegrity = New("integrity violation")
)

// IsInvalidOption checks if an error is or wraps ErrInvalidOption
func IsInvalidOption(err error) bool {
	return err != nil && Is(err, ErrInvalidOption)
}

// IsMalformedParameter checks if an error is or wraps ErrMalformedParameter
func IsMalformedParameter(err error) bool {
	return err != nil && Is(err, ErrMalformedParameter)
}

// NewIntegrityError creates an integrity error with a formatted message
func NewIntegrityError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrIntegrity)
}

// NewUnsupportedError creates an unsupported error with a formatted message
func NewUnsupportedError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrUnsupported)
}
