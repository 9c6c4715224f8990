package errors

import "fmt"

// FromStatus maps an HTTP response status to an OpError.
// 401 maps to Unauthorized, 404 to NotFound, everything else that is not
// a success to Transport. The response body is folded into the cause so
// server-side messages survive into logs.
func FromStatus(op string, status int, body string) *OpError {
	kind := Transport
	switch status {
	case 401:
		kind = Unauthorized
	case 404:
		kind = NotFound
	}
	var cause error
	if body != "" {
		cause = fmt.Errorf("%s", body)
	}
	return &OpError{Op: op, Kind: kind, Status: status, Err: cause}
}

// Network wraps a transport-level failure (DNS, refused connection,
// timeout) where no HTTP status was received.
func Network(op string, err error) *OpError {
	return &OpError{Op: op, Kind: Transport, Err: fmt.Errorf("%s: %w", op, err)}
}
