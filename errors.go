package memoboard

import (
	apierr "github.com/memoboard/memoboard-go/internal/errors"
)

// OpError is the structured failure returned by every store and sync
// operation: the failed operation name, a kind, and the underlying cause.
type OpError = apierr.OpError

// Error kinds. See OpError.
const (
	KindTransport    = apierr.Transport
	KindValidation   = apierr.Validation
	KindUnauthorized = apierr.Unauthorized
	KindNotFound     = apierr.NotFound
)

// IsNotFound reports whether err means the target memo or comment no
// longer exists; the right recovery is a list refresh, not a retry.
func IsNotFound(err error) bool { return apierr.IsNotFound(err) }

// IsUnauthorized reports whether err is an authorization failure. By the
// time the caller sees it, the session has already been invalidated.
func IsUnauthorized(err error) bool { return apierr.IsUnauthorized(err) }

// IsValidation reports whether err is a pre-flight validation failure;
// no store call was made.
func IsValidation(err error) bool { return apierr.IsValidation(err) }
