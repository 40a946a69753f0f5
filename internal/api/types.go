package api

// TokenRequest represents the request payload for issuing a user token.
// Identity verification happens upstream; this service only mints tokens.
type TokenRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// TokenResponse represents the response payload for token issuance
type TokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// StartAssessmentResponse returns the fresh session id
type StartAssessmentResponse struct {
	SessionID string `json:"session_id"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
