package types

// ------------------------------
// Response Types
// ------------------------------

// LoginResponse mirrors the backend login result.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// StatusResponse is the generic mutation acknowledgment shape.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
