package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeSearchFailed   = "SEARCH_FAILED"
	ErrCodeLLMFailure     = "LLM_FAILURE"
	ErrCodeLLMOutput      = "LLM_OUTPUT_INVALID"
	ErrCodeUnsupported    = "UNSUPPORTED_FORMAT"
	ErrCodeExtraction     = "EXTRACTION_FAILED"
	ErrCodeTooLarge       = "PAYLOAD_TOO_LARGE"
	ErrCodeUserExists     = "USER_EXISTS"
	ErrCodeBadCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is used by the account endpoints and the auth middleware.
type MessageResponse struct {
	Message string `json:"message"`
}

// APIError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type APIError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError.
func NewAPIError(code, message string, err error) *APIError {
	return &APIError{Code: code, Message: message, Err: err}
}

// ToResponse converts an internal error to the API-facing envelope.
func (e *APIError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}
