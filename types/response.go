package types

// StatusResponse is a minimal success body.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse mirrors the body rendered by middleware.ErrorHandler.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
