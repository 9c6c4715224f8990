package memoboard

import (
	"net/http"
	"sync/atomic"
	"time"
)

// Client is the top-level entry point. It selects a backend once from
// Config, wires the session gate and the board over it, and exposes the
// three as accessors. Backend choice is a startup decision; nothing in
// the API switches stores per call.
type Client struct {
	cfg    Config
	http   *http.Client
	tokens TokenSource

	store     Store
	local     *LocalStore // non-nil only for the local backend; closed in Close
	session   *Session    // non-nil only for the remote backend
	board     *Board
	boardOpts []BoardOption

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for the backend named in cfg. Additional
// behaviour is layered on via functional options.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.HTTPTimeout},
		tokens: NewMemoryTokenSource(),
	}

	// Auto-enable debug via env variable without changing code.
	if cfg.Debug || debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.store == nil {
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		switch cfg.Backend {
		case BackendRemote:
			c.wrapTransportWithToken()
			c.session = NewSession(cfg.BaseURL, c.http, c.tokens)
			c.store = NewRemoteStore(cfg.BaseURL, c.http, c.session)
		case BackendLocal:
			c.local = NewLocalStore(cfg.DataDir)
			c.store = c.local
		case BackendMock:
			c.store = NewMockStore(WithMockLatency(cfg.MockLatency))
		}
	}
	c.store = instrumentStore(c.cfg.Backend, c.store)

	boardOpts := c.boardOpts
	if c.session != nil {
		boardOpts = append(boardOpts, WithAuthGate(c.session, cfg.gatePolicy()))
	}
	c.board = NewBoard(c.store, boardOpts...)
	return c, nil
}

// wrapTransportWithToken wraps the HTTP client's transport so every
// request carries the current session token, when there is one.
func (c *Client) wrapTransportWithToken() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &tokenTransport{base: base, tokens: c.tokens}
}

// tokenTransport adds the session bearer token to outgoing requests.
// Requests made while no token is held (login, signup) go out without an
// Authorization header.
type tokenTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok := t.tokens.Token()
	if tok == "" {
		return t.base.RoundTrip(req)
	}
	// Clone to avoid mutating the caller's request.
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+tok)
	return t.base.RoundTrip(cloned)
}

// Board returns the optimistic sync engine over the selected store.
func (c *Client) Board() *Board { return c.board }

// Store returns the selected store directly, bypassing the board.
func (c *Client) Store() Store { return c.store }

// Session returns the auth session, or nil for backends with no auth
// surface (local, mock).
func (c *Client) Session() *Session { return c.session }

// Close releases backend resources. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	if c.local != nil {
		return c.local.Close()
	}
	return nil
}
