package memoboard

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file makes it easy to
// discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"
)

// Option configures a Client during construction in New.
//
// Options are applied before the session-token transport wrapper is
// installed, so transport-related options (like debug logging) end up
// underneath the token wrapper. Options must be deterministic and
// side-effect free.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client Timeout used for the
// remote backend.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse safety net that bounds the total time spent on a single HTTP
// request (connection, TLS handshake, redirects, and reading the
// response). The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithHTTPClient replaces the HTTP client used for the remote backend.
// The token and debug wrappers are still layered on top of its
// transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) error {
		if h == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.http = h
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request and
// response is dump-logged when enabled is true. The dumps include
// bodies and session tokens; keep this off in production.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			base := c.http.Transport
			if base == nil {
				base = http.DefaultTransport
			}
			c.http.Transport = &debugTransport{base: base}
		}
		return nil
	}
}

// WithTokenSource replaces the in-memory session token holder, e.g. with
// one backed by the OS keychain. Must not be nil.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) error {
		if ts == nil {
			return fmt.Errorf("token source must not be nil")
		}
		c.tokens = ts
		return nil
	}
}

// WithStore bypasses backend selection and serves the board from the
// given store. Intended for tests and embedding.
func WithStore(s Store) Option {
	return func(c *Client) error {
		if s == nil {
			return fmt.Errorf("store must not be nil")
		}
		c.store = s
		return nil
	}
}

// WithBoardOptions forwards options to the board built in New.
func WithBoardOptions(opts ...BoardOption) Option {
	return func(c *Client) error {
		c.boardOpts = append(c.boardOpts, opts...)
		return nil
	}
}
