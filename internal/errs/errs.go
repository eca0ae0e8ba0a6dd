// Package errs provides the error taxonomy shared by the settlement core and
// its HTTP surface.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller.
type Kind string

const (
	// KindValidation is missing or out-of-range input.
	KindValidation Kind = "VALIDATION"
	// KindNonce is an absent, expired or already consumed nonce.
	KindNonce Kind = "NONCE"
	// KindConflict is a settlement attempt on a bet that is not pending.
	KindConflict Kind = "CONFLICT"
	// KindNotFound is an unknown bet or game.
	KindNotFound Kind = "NOT_FOUND"
	// KindForbidden is an actor touching a bet it does not own.
	KindForbidden Kind = "FORBIDDEN"
	// KindInternal is a storage or primitive failure. Never shown to callers in detail.
	KindInternal Kind = "INTERNAL"
)

// Error is a classified error. Op names the failing operation,
// e.g. "services.SettlementEngine.Settle".
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Public returns the message that may be shown to a caller.
func (e *Error) Public() string {
	if e.Kind == KindInternal {
		return "internal error"
	}
	return e.Msg
}

func Validation(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Nonce(op, msg string) error {
	return &Error{Kind: KindNonce, Op: op, Msg: msg}
}

func Conflict(op, msg string) error {
	return &Error{Kind: KindConflict, Op: op, Msg: msg}
}

func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: msg}
}

func Forbidden(op, msg string) error {
	return &Error{Kind: KindForbidden, Op: op, Msg: msg}
}

// Internal wraps err as an internal failure of op.
func Internal(op string, err error) error {
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

// KindOf returns the Kind of the outermost classified error in err's chain.
// Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage returns the caller-safe message for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Public()
	}
	return "internal error"
}
