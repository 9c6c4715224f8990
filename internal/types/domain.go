package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ------------------------------
// Identifiers
// ------------------------------

// ProvisionalPrefix marks client-generated identifiers that the backing
// store has not confirmed yet. A memo carrying one must only ever be sent
// as a create, never as an update target.
const ProvisionalPrefix = "temp-"

// ID identifies a memo or comment. The backing stores are inconsistent
// about identifier types (some assign integers, some strings), so ID
// accepts both on the wire and holds the canonical string form.
type ID string

// NewProvisionalID allocates a fresh client-side identifier.
func NewProvisionalID() ID {
	return ID(ProvisionalPrefix + uuid.NewString())
}

// Provisional reports whether the identifier is client-generated.
func (id ID) Provisional() bool {
	return strings.HasPrefix(string(id), ProvisionalPrefix)
}

// String returns the identifier as a plain string.
func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// ------------------------------
// Core Domain Entities
// ------------------------------

// Memo is the canonical in-memory memo shape. Comments are not embedded;
// they are fetched on demand through the store adapter.
type Memo struct {
	ID      ID        `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`

	// Provisional is true until the store confirms the memo and assigns
	// a permanent identifier.
	Provisional bool `json:"-"`
}

// Comment is the canonical comment shape produced by normalization.
// Text and Content always carry the same value; both aliases are kept
// populated because downstream consumers read either.
type Comment struct {
	ID      ID        `json:"id"`
	MemoID  ID        `json:"memoId,omitempty"`
	Text    string    `json:"text"`
	Content string    `json:"content"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

// User describes the authenticated account as returned by /users/me.
type User struct {
	ID          ID     `json:"id,omitempty"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}
