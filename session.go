package memoboard

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/memoboard/memoboard-go/internal/api"
	apierr "github.com/memoboard/memoboard-go/internal/errors"
	"github.com/memoboard/memoboard-go/internal/types"
)

// TokenSource is the opaque credential provider. The SDK only reads,
// replaces, and clears the token; where it lives between runs (keychain,
// file, memory) is the caller's concern.
type TokenSource interface {
	Token() string
	SetToken(token string)
	Clear()
}

// memoryTokenSource keeps the token in process memory only.
type memoryTokenSource struct {
	mu  sync.Mutex
	tok string
}

// NewMemoryTokenSource returns a TokenSource holding the token in memory.
func NewMemoryTokenSource() TokenSource { return &memoryTokenSource{} }

func (m *memoryTokenSource) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tok
}

func (m *memoryTokenSource) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok = token
}

func (m *memoryTokenSource) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok = ""
}

// LoginResult is the structured outcome of Login and Signup. Failures
// are data, not errors, so a caller can render the message inline.
type LoginResult struct {
	Success bool
	Message string
}

// Session tracks authentication state and invalidates it when the
// backing store reports credential expiry. Absence of a valid token
// implies IsAuthenticated() == false.
type Session struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource

	mu     sync.Mutex
	authed bool
	user   *User
}

// NewSession constructs a session gate against the given API base URL.
// The http.Client should carry the token-injecting transport so that
// /users/me and /logout are authenticated.
func NewSession(baseURL string, httpClient *http.Client, tokens TokenSource) *Session {
	if tokens == nil {
		tokens = NewMemoryTokenSource()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Session{baseURL: baseURL, http: httpClient, tokens: tokens}
}

// IsAuthenticated reports whether a credential is currently held.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authed && s.tokens.Token() != ""
}

// CurrentUser returns the account descriptor fetched at login, or nil.
func (s *Session) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token exposes the current credential for transport injection.
func (s *Session) Token() string { return s.tokens.Token() }

// Whoami returns the account descriptor, fetching it from the store if
// none is cached yet. A process that resumed a persisted token has a
// credential but no cached user; the successful fetch also flips the
// session to authenticated.
func (s *Session) Whoami(ctx context.Context) (*User, error) {
	if u := s.CurrentUser(); u != nil {
		return u, nil
	}
	user, err := api.CurrentUser(ctx, s.http, s.baseURL)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.authed = true
	s.user = user
	s.mu.Unlock()
	u := *user
	return &u, nil
}

// Login exchanges credentials for a token, then fetches the account
// descriptor. Both failures come back as a LoginResult, not an error.
func (s *Session) Login(ctx context.Context, email, password string) LoginResult {
	resp, err := api.Login(ctx, s.http, s.baseURL, types.LoginRequest{Email: email, Password: password})
	if err != nil {
		return LoginResult{Message: loginMessage(err)}
	}
	if !resp.Success && resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "login failed"
		}
		return LoginResult{Message: msg}
	}
	s.tokens.SetToken(resp.Token)

	user, err := api.CurrentUser(ctx, s.http, s.baseURL)
	if err != nil {
		// The token is good but the descriptor fetch failed; stay logged
		// in without a user record rather than bouncing the caller.
		log.Warn().Err(err).Msg("session: current-user fetch failed after login")
	}

	s.mu.Lock()
	s.authed = true
	s.user = user
	s.mu.Unlock()
	return LoginResult{Success: true}
}

// Signup registers the account and then logs in with the same
// credentials.
func (s *Session) Signup(ctx context.Context, email, password string) LoginResult {
	if err := api.Signup(ctx, s.http, s.baseURL, types.SignupRequest{Email: email, Password: password}); err != nil {
		return LoginResult{Message: loginMessage(err)}
	}
	return s.Login(ctx, email, password)
}

// Logout clears the credential and the authenticated flag. The store is
// notified best-effort; a notification failure never blocks the local
// clear.
func (s *Session) Logout(ctx context.Context) {
	if err := api.Logout(ctx, s.http, s.baseURL); err != nil {
		log.Warn().Err(err).Msg("session: logout notification failed")
	}
	s.clearLocked()
}

// ChangePassword rotates the account password.
func (s *Session) ChangePassword(ctx context.Context, current, updated string) error {
	return api.ChangePassword(ctx, s.http, s.baseURL, types.ChangePasswordRequest{CurrentPassword: current, NewPassword: updated})
}

// DeleteAccount removes the account and clears the session.
func (s *Session) DeleteAccount(ctx context.Context, password string) error {
	if err := api.DeleteAccount(ctx, s.http, s.baseURL, types.DeleteAccountRequest{Password: password}); err != nil {
		return err
	}
	s.clearLocked()
	return nil
}

// Invalidate clears authentication state in response to a store-level
// authorization failure, but only if failingToken is still the current
// credential. Concurrent 401s from one expired token therefore
// invalidate exactly once; a token refreshed in the meantime survives.
func (s *Session) Invalidate(failingToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if failingToken == "" || s.tokens.Token() != failingToken {
		return
	}
	s.tokens.Clear()
	s.authed = false
	s.user = nil
	sessionInvalidationsTotal.Inc()
	log.Debug().Msg("session: invalidated after authorization failure")
}

func (s *Session) clearLocked() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens.Clear()
	s.authed = false
	s.user = nil
}

// loginMessage extracts a user-renderable message from a structured
// operation error.
func loginMessage(err error) string {
	if apierr.IsUnauthorized(err) {
		return "invalid email or password"
	}
	if apierr.IsValidation(err) {
		var oe *OpError
		if errors.As(err, &oe) && oe.Err != nil {
			return oe.Err.Error()
		}
	}
	return "login is unavailable right now, try again"
}
