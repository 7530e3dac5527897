package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"

	"github.com/shivanshkc/ghauth/internal/state"
	"github.com/shivanshkc/ghauth/internal/utils/errutils"
	"github.com/shivanshkc/ghauth/internal/utils/httputils"
)

var errUnsupportedProvider = errutils.BadRequest().WithReasonStr("provider is not supported")

// Auth starts the OAuth flow by redirecting the caller to the specified provider's authentication page.
func (h *Handler) Auth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Provider is a path parameter and so it will always be present.
	providerName := mux.Vars(r)["provider"]

	// Provider name validation.
	if err := validateProvider(providerName); err != nil {
		slog.ErrorContext(ctx, "invalid provider", "value", providerName, "error", err)
		httputils.WriteErr(w, errutils.BadRequest().WithReasonErr(err))
		return
	}

	// Select provider as per the given name.
	provider := h.providers.Get(providerName)
	if provider == nil {
		slog.ErrorContext(ctx, "provider is not registered", "provider", providerName)
		httputils.WriteErr(w, errUnsupportedProvider)
		return
	}

	// Create and persist the state ID for CSRF protection, along with the PKCE verifier.
	stateID, codeVerifier := uuid.NewString(), oauth2.GenerateVerifier()
	value := state.Value{Provider: providerName, CodeVerifier: codeVerifier}

	if err := h.states.Put(ctx, stateID, value, h.stateTTL()); err != nil {
		slog.ErrorContext(ctx, "error in states.Put call", "error", err)
		httputils.WriteErr(w, errutils.InternalServerError())
		return
	}

	// Get the Auth URL of the provider.
	authURL := provider.GetAuthURL(ctx, stateID, codeVerifier)

	// Response headers.
	headers := map[string]string{
		"Location": authURL,
		// The following headers make sure that the browser is not allowed to render the page
		// in a <frame>, <iframe>, <embed> or <object> tag.
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "frame-ancestors 'none'",
	}

	// Redirect.
	httputils.Write(w, http.StatusFound, headers, nil)
}
