// Package errors provides the structured failure type shared by every
// store adapter and by the sync engine. Callers branch on the Kind to
// decide between inline messages, a refresh offer, or a re-login prompt.
package errors

import "fmt"

// Kind classifies an operation failure.
type Kind int

const (
	// Transport covers network failures and unexpected non-2xx responses.
	Transport Kind = iota

	// Validation is a pre-flight failure; no store call was made.
	Validation

	// Unauthorized is a 401-equivalent; the session has been invalidated
	// before the error reaches the caller.
	Unauthorized

	// NotFound means the target memo or comment no longer exists; the
	// caller should offer a list refresh rather than a retry.
	NotFound
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case Transport:
		return "Transport"
	case Validation:
		return "Validation"
	case Unauthorized:
		return "Unauthorized"
	case NotFound:
		return "NotFound"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// OpError carries the failed operation name and an underlying cause.
// Adapters never return a bare error: every failure is wrapped so the
// caller can log the operation and classify the kind without string
// matching.
type OpError struct {
	Op     string // operation name, e.g. "createMemo"
	Kind   Kind
	Status int   // HTTP status code (0 for non-HTTP failures)
	Err    error // the original error, may be nil for pure status failures
}

// Error implements the error interface.
func (e *OpError) Error() string {
	switch {
	case e.Status > 0 && e.Err != nil:
		return fmt.Sprintf("%s: [%s] HTTP %d: %v", e.Op, e.Kind, e.Status, e.Err)
	case e.Status > 0:
		return fmt.Sprintf("%s: [%s] HTTP %d", e.Op, e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: [%s] %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: [%s]", e.Op, e.Kind)
	}
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *OpError) Unwrap() error { return e.Err }

// New constructs an OpError with no HTTP status.
func New(op string, kind Kind, err error) *OpError {
	return &OpError{Op: op, Kind: kind, Err: err}
}

// Validationf builds a Validation OpError from a format string.
func Validationf(op, format string, args ...any) *OpError {
	return &OpError{Op: op, Kind: Validation, Err: fmt.Errorf(format, args...)}
}

// NotFoundf builds a NotFound OpError from a format string.
func NotFoundf(op, format string, args ...any) *OpError {
	return &OpError{Op: op, Kind: NotFound, Err: fmt.Errorf(format, args...)}
}

// kindOf extracts the kind from an error chain.
func kindOf(err error) (Kind, bool) {
	for e := err; e != nil; {
		if oe, ok := e.(*OpError); ok {
			return oe.Kind, true
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			return 0, false
		}
		e = u.Unwrap()
	}
	return 0, false
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, k Kind) bool {
	got, ok := kindOf(err)
	return ok && got == k
}

// IsNotFound reports whether err is a NotFound operation failure.
func IsNotFound(err error) bool { return IsKind(err, NotFound) }

// IsUnauthorized reports whether err is an authorization failure.
func IsUnauthorized(err error) bool { return IsKind(err, Unauthorized) }

// IsValidation reports whether err is a pre-flight validation failure.
func IsValidation(err error) bool { return IsKind(err, Validation) }
