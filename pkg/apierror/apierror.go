package apierror

import (
	"fmt"
	"net/http"
	"strings"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Validation reports every violated rule at once so clients can fix a form
// in a single round trip.
func Validation(reasons []string) *APIError {
	return New("VALIDATION_FAILED", "Validation failed", strings.Join(reasons, "; "), http.StatusBadRequest)
}

func BadRequest(message string) *APIError {
	return New("BAD_REQUEST", message, "", http.StatusBadRequest)
}

func NotFound(resource string) *APIError {
	return New("NOT_FOUND", resource+" not found", "", http.StatusNotFound)
}

func Conflict(message string, details string) *APIError {
	return New("ALREADY_EXISTS", message, details, http.StatusConflict)
}

func Unauthorized(message string) *APIError {
	return New("UNAUTHORIZED", message, "", http.StatusUnauthorized)
}

func Forbidden() *APIError {
	return New("FORBIDDEN", "forbidden", "", http.StatusForbidden)
}

// Upstream wraps a failure of an external collaborator (LLM, weather,
// geocoding). These surface as 502 so they are distinguishable from our
// own faults.
func Upstream(collaborator string, err error) *APIError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return New("UPSTREAM_UNAVAILABLE", collaborator+" is unavailable", details, http.StatusBadGateway)
}
