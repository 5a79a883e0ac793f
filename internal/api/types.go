package api

// ErrorResponse is the JSON error envelope for 4xx/5xx answers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
