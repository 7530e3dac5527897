package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shivanshkc/ghauth/internal/repository"
	"github.com/shivanshkc/ghauth/internal/utils/errutils"
	"github.com/shivanshkc/ghauth/internal/utils/httputils"
)

// GetSelf returns the logged-in user's own record.
func (h *Handler) GetSelf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.authenticate(r)
	if err != nil {
		httputils.WriteErr(w, err)
		return
	}

	// HEAD requests only check the session.
	if r.Method == http.MethodHead {
		httputils.Write(w, http.StatusOK, nil, nil)
		return
	}

	slog.DebugContext(ctx, "serving self", "userID", user.ID)
	httputils.Write(w, http.StatusOK, nil, user)
}

// Check performs an authentication check on the given request.
// It is meant to be used by reverse proxies for forward authentication.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r)
	if err != nil {
		httputils.WriteErr(w, err)
		return
	}

	headers := map[string]string{
		"X-Auth-User-ID": user.ID,
		"X-Auth-Email":   user.Email,
		"X-Auth-Name":    user.DisplayName,
	}

	httputils.Write(w, http.StatusOK, headers, nil)
}

// authenticate verifies the session cookie of the request and loads the user it belongs to.
// The returned error is always an *errutils.HTTPError.
func (h *Handler) authenticate(r *http.Request) (repository.User, error) {
	ctx := r.Context()

	// Get cookie for authentication.
	cookie, err := r.Cookie(h.sessionCookieName())
	if err != nil {
		// Known error.
		if errors.Is(err, http.ErrNoCookie) {
			slog.ErrorContext(ctx, "No cookie in the request")
			return repository.User{}, errutils.Unauthorized()
		}
		// Unexpected error.
		slog.ErrorContext(ctx, "Failed to get cookie from request", "error", err)
		return repository.User{}, errutils.InternalServerError()
	}

	// Verify the session token.
	userID, err := h.sessions.Verify(cookie.Value)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to verify session", "error", err)
		return repository.User{}, errutils.Unauthorized()
	}

	user, err := h.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.ErrorContext(ctx, "Session user does not exist", "userID", userID)
			return repository.User{}, errutils.NotFound().WithReasonStr("user not found")
		}
		slog.ErrorContext(ctx, "error in FindByID call", "error", err)
		return repository.User{}, errutils.InternalServerError()
	}

	return user, nil
}
