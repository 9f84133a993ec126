// Package errors provides error handling for xraydb.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//
// Usage:
//
//	// Wrap with context
//	if err := store.Commit(); err != nil {
//	    return errors.Wrap(err, "commit elam tables")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "use --force to overwrite")
//
//	// Check categories
//	if errors.Is(err, errors.ErrUnexpectedContext) {
//	    // Edge or block before any Element header
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
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// GetStack is an alias for GetReportableStackTrace for convenience.
var GetStack = crdb.GetReportableStackTrace

// Sentinel errors for the build pipeline.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrSignature indicates a source file does not carry the expected header
	ErrSignature = New("source signature not recognized")

	// ErrUnexpectedContext indicates a record appeared before the element or edge it belongs to
	ErrUnexpectedContext = New("unexpected context")

	// ErrMalformedNumber indicates a numeric field failed to parse
	ErrMalformedNumber = New("malformed numeric field")

	// ErrFieldCount indicates a row did not tokenize to the expected number of fields
	ErrFieldCount = New("unexpected field count")

	// ErrDuplicate indicates a key that must be unique appeared twice
	ErrDuplicate = New("duplicate key")

	// ErrSourceMissing indicates a source data file does not exist
	ErrSourceMissing = New("source file missing")

	// ErrAlreadyExists indicates the destination database already exists
	ErrAlreadyExists = New("destination already exists")
)

// IsParseError reports whether err is one of the fatal input-format categories.
func IsParseError(err error) bool {
	return err != nil && IsAny(err, ErrUnexpectedContext, ErrMalformedNumber, ErrFieldCount, ErrSignature, ErrDuplicate)
}

// IsAlreadyExists checks if an error is or wraps ErrAlreadyExists
func IsAlreadyExists(err error) bool {
	return err != nil && Is(err, ErrAlreadyExists)
}

// IsSourceMissing checks if an error is or wraps ErrSourceMissing
func IsSourceMissing(err error) bool {
	return err != nil && Is(err, ErrSourceMissing)
}
