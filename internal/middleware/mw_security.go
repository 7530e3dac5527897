package middleware

import (
	"net/http"
)

const (
	xContentTypeOptions = "X-Content-Type-Options"
	cacheControl        = "Cache-Control"
	referrerPolicy      = "Referrer-Policy"
)

// Security adds the security headers that every response of this service needs.
//
// NOTE: Headers like "Strict-Transport-Security" depend on the deployment and are left to the reverse proxy.
func (m Middleware) Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Browsers should not try to guess the Content-Type if it is not provided.
		w.Header().Set(xContentTypeOptions, "nosniff")

		// Session cookies and user records must not end up in a browser or proxy cache.
		w.Header().Set(cacheControl, "no-store, max-age=0")

		// The callback URL carries the authorization code and the state.
		// They must not leak to the next page through the Referer header.
		w.Header().Set(referrerPolicy, "no-referrer")

		// Call the next handler
		next.ServeHTTP(w, r)
	})
}
