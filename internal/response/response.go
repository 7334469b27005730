package response

// MessageResponse is a successful API response carrying only a message.
type MessageResponse struct {
	Message string `json:"message" example:"Caller 555-1111 removed from queue Sales."`
}

// ErrorResponse is an API error with a stable machine-readable code.
type ErrorResponse struct {
	// Code identifies the error for programmatic handling.
	// example: DUPLICATE_CALLER
	Code string `json:"code"`

	// Message is the human-readable description.
	// example: Caller is already in this queue.
	Message string `json:"message"`

	// Details carries optional diagnostic detail.
	Details string `json:"details,omitempty"`
}
