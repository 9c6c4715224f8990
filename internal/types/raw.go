package types

// ------------------------------
// Raw External Records
// ------------------------------
//
// The backing stores do not agree on field names: comment bodies arrive
// as "content" on one code path and "text" on another, and timestamps
// may be "updatedAt", "createdAt", or a bare "date". These shapes exist
// only at the store boundary; NormalizeComment / NormalizeMemo convert
// them before anything else sees them.

// RawComment is a comment record as it arrives from a backing store.
type RawComment struct {
	ID        ID     `json:"id,omitempty"`
	Content   string `json:"content,omitempty"`
	Text      string `json:"text,omitempty"`
	Author    string `json:"author,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	Date      string `json:"date,omitempty"`
}

// RawMemo is a memo record as it arrives from a backing store. Comments
// are embedded on first fetch only.
type RawMemo struct {
	ID        ID           `json:"id,omitempty"`
	Title     string       `json:"title,omitempty"`
	Content   string       `json:"content,omitempty"`
	Author    string       `json:"author,omitempty"`
	UpdatedAt string       `json:"updatedAt,omitempty"`
	CreatedAt string       `json:"createdAt,omitempty"`
	Date      string       `json:"date,omitempty"`
	Comments  []RawComment `json:"comments,omitempty"`
}
