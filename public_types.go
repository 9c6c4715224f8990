package memoboard

import "github.com/memoboard/memoboard-go/internal/types"

// Public type aliases so SDK consumers can import only the memoboard package.
type (
	// Domain entities
	ID      = types.ID
	Memo    = types.Memo
	Comment = types.Comment
	User    = types.User

	// Raw boundary shapes (exposed for custom Store implementations)
	RawMemo    = types.RawMemo
	RawComment = types.RawComment

	// Requests
	MemoDraft             = types.MemoDraft
	CommentDraft          = types.CommentDraft
	SignupRequest         = types.SignupRequest
	LoginRequest          = types.LoginRequest
	ChangePasswordRequest = types.ChangePasswordRequest
)

// Sentinel values produced by normalization.
const (
	SentinelBody    = types.SentinelBody
	SystemAuthor    = types.SystemAuthor
	AnonymousAuthor = types.AnonymousAuthor
)

// NormalizeComment converts a raw store record into the canonical
// Comment shape. See internal/types for the resolution rules.
func NormalizeComment(raw *RawComment) Comment { return types.NormalizeComment(raw) }

// NormalizeMemo converts a raw memo record into the canonical shape.
func NormalizeMemo(raw *RawMemo) Memo { return types.NormalizeMemo(raw) }

// NewProvisionalID allocates a fresh client-side memo identifier.
func NewProvisionalID() ID { return types.NewProvisionalID() }
