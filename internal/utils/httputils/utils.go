package httputils

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shivanshkc/ghauth/internal/utils/errutils"
)

// Write writes the given status code, headers and body to the response writer.
// The body is JSON encoded. A nil body writes no content.
func Write(w http.ResponseWriter, status int, headers map[string]string, body any) {
	for key, value := range headers {
		w.Header().Set(key, value)
	}

	// No body to write.
	if body == nil {
		w.WriteHeader(status)
		return
	}

	// Marshal before writing the status so that a failure can still be reported.
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		slog.Error("error in json.Marshal call", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(bodyBytes); err != nil {
		slog.Error("failed to write response body", "error", err)
	}
}

// WriteErr converts the given error to an HTTP error and writes it to the response writer.
func WriteErr(w http.ResponseWriter, err error) {
	httpErr := errutils.ToHTTPError(err)
	if httpErr == nil {
		httpErr = errutils.InternalServerError()
	}
	Write(w, httpErr.Status, nil, httpErr)
}

// Is2xx returns true if the given status code is in the 2xx range.
func Is2xx(status int) bool {
	return status >= 200 && status < 300
}
