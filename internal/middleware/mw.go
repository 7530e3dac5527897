package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shivanshkc/ghauth/internal/utils/httputils"
)

// Middleware implements all the REST middleware methods.
type Middleware struct {
	// AllowedOrigins are the origins that receive CORS headers. A "*" entry allows all of them.
	AllowedOrigins []string
}

func (m Middleware) Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			// Recover the panic.
			errAny := recover()
			if errAny == nil {
				return
			}

			// Stack for debugging.
			stack := string(debug.Stack())
			// Log.
			slog.ErrorContext(r.Context(), "panic occurred during request execution",
				"err", errAny, "stack", stack)

			// Convert to error for handling.
			err, ok := errAny.(error)
			if !ok {
				err = fmt.Errorf("recover returned a non-error type value: %v", errAny)
			}

			// Response.
			httputils.WriteErr(w, err)
		}()

		// Next middleware or handler.
		next.ServeHTTP(w, r)
	})
}

// CORS middleware attaches the necessary CORS headers for allowed origins.
func (m Middleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" || !m.isAllowedOrigin(origin) {
			next.ServeHTTP(w, r)
			return
		}

		// The exact origin is echoed since credentials are allowed.
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
		// Allow credentials (cookies, HTTP authentication).
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		// Cache preflight requests for 1 hour
		w.Header().Set("Access-Control-Max-Age", "3600")

		// Allow the methods that this service serves.
		w.Header().Set("Access-Control-Allow-Methods",
			strings.Join([]string{http.MethodGet, http.MethodHead, http.MethodOptions}, ", "))

		// Allow common headers.
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, "+
			"Accept-Encoding, Authorization, X-Requested-With")

		// Handle preflight requests.
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Next middleware or handler.
		next.ServeHTTP(w, r)
	})
}

// AccessLogger logs every request along with its outcome and latency.
func (m Middleware) AccessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Propagate the request ID if present, otherwise generate one.
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		// Record the status code for logging.
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		slog.InfoContext(r.Context(), "request served",
			"requestID", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"latency", time.Since(start).String(),
		)
	})
}

func (m Middleware) isAllowedOrigin(origin string) bool {
	return slices.Contains(m.AllowedOrigins, "*") || slices.Contains(m.AllowedOrigins, origin)
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}
