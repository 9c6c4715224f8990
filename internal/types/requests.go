package types

// ------------------------------
// Request Types
// ------------------------------

// MemoDraft holds the caller-supplied fields for a memo create or update.
type MemoDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
	Date    string `json:"date,omitempty"`
}

// CommentDraft holds parameters for a new comment.
type CommentDraft struct {
	Text   string `json:"text"`
	Author string `json:"author,omitempty"`
}

// UpdateCommentRequest carries a comment body edit.
type UpdateCommentRequest struct {
	Text string `json:"text"`
}

// SignupRequest creates a new account.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest exchanges credentials for a session token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest rotates the account password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// DeleteAccountRequest confirms account removal with the password.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}
