package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// fileTokenSource persists the session token to disk so a login made by
// one invocation is usable by the next. The token is stored as-is with
// owner-only permissions.
type fileTokenSource struct {
	path string

	mu  sync.Mutex
	tok string
}

func newFileTokenSource(path string) (*fileTokenSource, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("token store: %w", err)
	}
	ts := &fileTokenSource{path: path}
	if raw, err := os.ReadFile(path); err == nil {
		ts.tok = strings.TrimSpace(string(raw))
	}
	return ts, nil
}

func (f *fileTokenSource) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tok
}

func (f *fileTokenSource) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tok = token
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		// Session still works in-process; only persistence is lost.
		fmt.Fprintf(os.Stderr, "warning: could not persist session token: %v\n", err)
	}
}

func (f *fileTokenSource) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tok = ""
	_ = os.Remove(f.path)
}
