package errutils

import (
	"errors"
	"net/http"
)

// HTTPError is an error that can be directly written as an HTTP response.
type HTTPError struct {
	// Status is the HTTP status code.
	Status int `json:"-"`
	// Code is the text form of the status code, for example, "BAD_REQUEST".
	Code string `json:"code"`
	// Reason is an optional human-readable explanation.
	Reason string `json:"reason,omitempty"`
}

func (h *HTTPError) Error() string {
	if h.Reason == "" {
		return h.Code
	}
	return h.Code + ": " + h.Reason
}

// WithReasonStr returns a copy of the error with the given reason attached.
func (h *HTTPError) WithReasonStr(reason string) *HTTPError {
	clone := *h
	clone.Reason = reason
	return &clone
}

// WithReasonErr returns a copy of the error with the given error's message as the reason.
func (h *HTTPError) WithReasonErr(err error) *HTTPError {
	if err == nil {
		return h.WithReasonStr("")
	}
	return h.WithReasonStr(err.Error())
}

// BadRequest is for malformed or invalid requests.
func BadRequest() *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Code: "BAD_REQUEST"}
}

// Unauthorized is for requests without valid credentials.
func Unauthorized() *HTTPError {
	return &HTTPError{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED"}
}

// NotFound is for unknown routes and absent resources.
func NotFound() *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Code: "NOT_FOUND"}
}

// RequestTimeout is for flows that took too long to complete.
func RequestTimeout() *HTTPError {
	return &HTTPError{Status: http.StatusRequestTimeout, Code: "REQUEST_TIMEOUT"}
}

// InternalServerError is for all unexpected errors.
func InternalServerError() *HTTPError {
	return &HTTPError{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR"}
}

// ToHTTPError converts any error into an *HTTPError.
// Errors that are not (and do not wrap) an *HTTPError become internal server errors.
func ToHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	return InternalServerError()
}
