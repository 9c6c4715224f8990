// Package api contains one function per remote HTTP operation. Functions
// here know the wire routes and status codes; they return raw record
// shapes and leave normalization to the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/memoboard/memoboard-go/internal/errors"
)

// HTTPClient interface for dependency injection.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// newJSONRequest builds a request with a JSON body (or none).
func newJSONRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// checkStatus returns nil when the response status is one of want,
// otherwise a classified OpError carrying the trimmed response body.
func checkStatus(op string, resp *http.Response, want ...int) error {
	for _, w := range want {
		if resp.StatusCode == w {
			return nil
		}
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return errors.FromStatus(op, resp.StatusCode, strings.TrimSpace(string(b)))
}

// decodeJSON decodes the response body into v, wrapping failures as
// transport errors for op.
func decodeJSON(op string, resp *http.Response, v any) error {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.New(op, errors.Transport, err)
	}
	return nil
}
