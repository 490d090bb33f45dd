package models

// ErrorDetail is the inner payload of every error response.
// swagger:model ErrorDetail
type ErrorDetail struct {
	// Human-readable message
	// default: Request failed
	Message string `json:"message"`

	// Raw error string
	// default: detail
	Error string `json:"error,omitempty"`
}

// ErrorResponse is the structured error body returned by all handlers.
// swagger:model ErrorResponse
type ErrorResponse struct {
	Detail ErrorDetail `json:"detail"`
}

// NewErrorResponse builds an ErrorResponse from a message and raw error string.
func NewErrorResponse(message, rawErr string) ErrorResponse {
	return ErrorResponse{Detail: ErrorDetail{Message: message, Error: rawErr}}
}
