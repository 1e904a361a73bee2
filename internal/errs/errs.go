// Package errs defines the typed errors surfaced by the addon manager.
//
// Every failure that reaches the caller carries a Kind so the presentation
// layer can react to the category (e.g. prompt for a manual install path on
// KindPathNotFound) while still showing a single human-readable message.
package errs

import (
	"errors"
	"fmt"
)

// Kind categorizes an Error.
type Kind int

const (
	// KindUnknown is the zero value and never produced intentionally.
	KindUnknown Kind = iota
	// KindConfigIO indicates the config file could not be written.
	KindConfigIO
	// KindPathNotFound indicates no valid install directory could be resolved.
	KindPathNotFound
	// KindFetch indicates a transport failure or a non-success HTTP status.
	KindFetch
	// KindArchive indicates the downloaded archive is malformed.
	KindArchive
	// KindExtraction indicates an I/O failure while writing extracted files.
	KindExtraction
	// KindLedgerIO indicates the installed-addon ledger could not be written.
	KindLedgerIO
	// KindInvalidInput indicates an addon id or repo identifier is unusable.
	KindInvalidInput
	// KindRemove indicates an addon directory could not be removed.
	KindRemove
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindConfigIO:
		return "ConfigIoError"
	case KindPathNotFound:
		return "PathNotFoundError"
	case KindFetch:
		return "FetchError"
	case KindArchive:
		return "ArchiveError"
	case KindExtraction:
		return "ExtractionError"
	case KindLedgerIO:
		return "LedgerIoError"
	case KindInvalidInput:
		return "InvalidInputError"
	case KindRemove:
		return "RemoveError"
	default:
		return "UnknownError"
	}
}

// Sentinels for use with errors.Is. They match any *Error of the same Kind.
var (
	ErrConfigIO     = &Error{Kind: KindConfigIO}
	ErrPathNotFound = &Error{Kind: KindPathNotFound}
	ErrFetch        = &Error{Kind: KindFetch}
	ErrArchive      = &Error{Kind: KindArchive}
	ErrExtraction   = &Error{Kind: KindExtraction}
	ErrLedgerIO     = &Error{Kind: KindLedgerIO}
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
	ErrRemove       = &Error{Kind: KindRemove}
)

// Error is a categorized failure with a user-facing message.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "fetch archive"
	Message string // user-facing message
	Status  int    // HTTP status code (KindFetch only, 0 otherwise)
	Err     error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an Error of the given kind.
func New(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
