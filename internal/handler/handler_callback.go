package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/shivanshkc/ghauth/internal/identity"
	"github.com/shivanshkc/ghauth/internal/state"
	"github.com/shivanshkc/ghauth/internal/utils/errutils"
	"github.com/shivanshkc/ghauth/internal/utils/httputils"
)

// defaultSessionCookieName is the name of the cookie that holds the session token, unless configured otherwise.
const defaultSessionCookieName = "session"

// Reasons attached to the failure redirect.
var (
	errStateExpired     = errors.New("state_expired")
	errProviderMismatch = errors.New("provider_mismatch")
	errExchangeFailed   = errors.New("exchange_failed")
	errProfileFailed    = errors.New("profile_failed")
	errInvalidProfile   = errors.New("invalid_profile")
)

// Callback handles the provider's OAuth callback.
//
// Every verification failure redirects to the failure route without touching the user store.
// A user store failure is answered with a 500.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	failureURL := h.config.Routes.FailureRedirect

	// Obtain params from the request.
	providerName := mux.Vars(r)["provider"]
	stateID, errAuth, code := r.URL.Query().Get("state"),
		r.URL.Query().Get("error"),
		r.URL.Query().Get("code")

	// State validation.
	if err := validateState(stateID); err != nil {
		slog.ErrorContext(ctx, "invalid state from provider", "value", stateID, "error", err)
		errorRedirect(w, errInvalidState, failureURL)
		return
	}

	// If the state is found in the store, it guarantees that it is not a CSRF attack.
	// Otherwise, it could be that the provider took too long to callback and the state got expired,
	// or it could be that it is a malicious request and someone is trying to impersonate the provider.
	sValue, err := h.states.Consume(ctx, stateID)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			slog.ErrorContext(ctx, "state not found, failing request", "stateID", stateID)
		} else {
			slog.ErrorContext(ctx, "error in states.Consume call", "error", err)
		}
		errorRedirect(w, errStateExpired, failureURL)
		return
	}

	// If this error is not empty, then the OAuth flow has failed from the provider's side.
	// For example, the user declined the authorization.
	if errAuth != "" {
		slog.WarnContext(ctx, "provider called back with error", "error", errAuth,
			"description", r.URL.Query().Get("error_description"))
		errorRedirect(w, errors.New(errAuth), failureURL)
		return
	}

	// The callback must come on the route of the provider that the flow was started for.
	if err := validateProvider(providerName); err != nil || providerName != sValue.Provider {
		slog.ErrorContext(ctx, "callback provider does not match the state", "value", providerName,
			"expected", sValue.Provider)
		errorRedirect(w, errProviderMismatch, failureURL)
		return
	}

	// Authorization code validation.
	if err := validateAuthCode(code); err != nil {
		slog.ErrorContext(ctx, "invalid code in callback", "error", err)
		errorRedirect(w, err, failureURL)
		return
	}

	// Get the required provider.
	provider := h.providers.Get(providerName)
	if provider == nil {
		slog.ErrorContext(ctx, "callback from unknown provider", "provider", providerName)
		errorRedirect(w, errProviderMismatch, failureURL)
		return
	}

	// Convert the code sent by the provider to an access token.
	token, err := provider.TokenFromCode(ctx, code, sValue.CodeVerifier)
	if err != nil {
		slog.ErrorContext(ctx, "error in TokenFromCode call", "error", err)
		errorRedirect(w, errExchangeFailed, failureURL)
		return
	}

	// Fetch the user's profile.
	profile, err := provider.Profile(ctx, token)
	if err != nil {
		slog.ErrorContext(ctx, "error in Profile call", "error", err)
		errorRedirect(w, errProfileFailed, failureURL)
		return
	}

	// Find, link or create the local user.
	user, err := h.resolver.ResolveProfile(ctx, providerName, profile)
	if err != nil {
		var validationErr *identity.ValidationError
		if errors.As(err, &validationErr) {
			slog.WarnContext(ctx, "profile rejected", "error", err)
			errorRedirect(w, errInvalidProfile, failureURL)
			return
		}

		slog.ErrorContext(ctx, "error in ResolveProfile call", "error", err)
		httputils.WriteErr(w, errutils.InternalServerError())
		return
	}

	// Attach the session.
	sessionToken, expiry, err := h.sessions.Issue(user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "error in sessions.Issue call", "error", err)
		httputils.WriteErr(w, errutils.InternalServerError())
		return
	}

	// Set the cookie.
	http.SetCookie(w, &http.Cookie{
		Name:  h.sessionCookieName(),
		Value: sessionToken,
		Path:  "/",
		// The cookie expires at the same time as the token.
		MaxAge: int(time.Until(expiry).Seconds()),
		// Use secure mode when the application is running over HTTPS.
		Secure:   strings.HasPrefix(h.config.Application.BaseURL, "https://"),
		HttpOnly: true,
		// Lax, because the cookie has to survive the top-level redirect chain that started on the provider.
		SameSite: http.SameSiteLaxMode,
	})

	slog.InfoContext(ctx, "login successful", "userID", user.ID, "provider", providerName)

	// Success redirect.
	headers := map[string]string{"Location": h.config.Routes.SuccessRedirect}
	httputils.Write(w, http.StatusFound, headers, nil)
}

// errorRedirect redirects the caller (by writing 302 and the Location header to the response) and attaches
// the given error information as a query parameter.
func errorRedirect(w http.ResponseWriter, err error, targetURL string) {
	headers := map[string]string{"Location": withErrorParam(targetURL, err)}
	httputils.Write(w, http.StatusFound, headers, nil)
}

// withErrorParam sets the "error" query parameter on the target URL, keeping its existing query parameters.
func withErrorParam(targetURL string, err error) string {
	parsed, parseErr := url.Parse(targetURL)
	if parseErr != nil {
		slog.Error("failed to parse redirect target", "target", targetURL, "error", parseErr)
		return fmt.Sprintf("%s?error=%s", targetURL, url.QueryEscape(err.Error()))
	}

	query := parsed.Query()
	query.Set("error", err.Error())
	parsed.RawQuery = query.Encode()

	return parsed.String()
}
