package cms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError carries a non-2xx backend response unchanged: status code and raw
// body, plus the server-provided message when one could be extracted. The
// gateway never retries and never hides partial failures; callers map the
// error to their own taxonomy.
type APIError struct {
	StatusCode int
	Body       []byte
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cms: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	}
	return fmt.Sprintf("cms: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// newAPIError extracts the server message from the standard error envelope
// {"error":{"message":...}} or the older {"message":...} form; the raw body is
// kept regardless.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: body}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error.Message != "" {
			apiErr.Message = envelope.Error.Message
		} else {
			apiErr.Message = envelope.Message
		}
	}
	return apiErr
}

// IsValidation reports whether err is a 400-class validation failure.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

// IsPermissionDenied reports whether err is a permission failure (403 or
// 405), which callers surface distinctly from validation errors.
func IsPermissionDenied(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusMethodNotAllowed
}

// IsUnauthorized reports whether err is a 401, i.e. the bearer token was
// missing, expired, or rejected.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// ServerMessage returns the backend-provided message for err when one exists,
// otherwise the given fallback.
func ServerMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
