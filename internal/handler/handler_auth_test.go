package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/shivanshkc/ghauth/internal/config"
	"github.com/shivanshkc/ghauth/internal/state"
	"github.com/shivanshkc/ghauth/internal/utils/errutils"
	"github.com/shivanshkc/ghauth/pkg/oauth"
)

// failingStateStore is a state.Store whose writes always fail.
type failingStateStore struct {
	state.Store
}

func (failingStateStore) Put(context.Context, string, state.Value, time.Duration) error {
	return errors.New("mock error")
}

func TestHandler_Auth_Validations(t *testing.T) {
	mProvider := &mockProvider{name: "github"}
	mHandler := &Handler{
		config:    config.LoadMock(),
		providers: oauth.NewRegistry(mProvider),
		states:    state.NewMemory(),
	}

	for _, tc := range []struct {
		name           string
		inputProvider  string
		expectedReason string
	}{
		{
			name:           "Too long provider length",
			inputProvider:  strings.Repeat("a", 21),
			expectedReason: errInvalidProvider.Error(),
		},
		{
			name:           "Invalid provider character",
			inputProvider:  mProvider.name + "$$",
			expectedReason: errInvalidProvider.Error(),
		},
		{
			name:           "Unknown provider",
			inputProvider:  mProvider.name + "-random",
			expectedReason: errUnsupportedProvider.Reason,
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			w, r := createMockAuthWR(tc.inputProvider)

			mHandler.Auth(w, r)

			require.Equal(t, http.StatusBadRequest, w.Code, "Expected 400 status code")

			// The body is the JSON form of the HTTP error.
			var httpErr errutils.HTTPError
			require.NoError(t, json.NewDecoder(w.Body).Decode(&httpErr), "Expected a JSON error body")
			require.Equal(t, errutils.BadRequest().Code, httpErr.Code)
			require.Equal(t, tc.expectedReason, httpErr.Reason)
		})
	}
}

func TestHandler_Auth(t *testing.T) {
	mProvider := &mockProvider{name: "github", authURL: "https://github.com/login/oauth/authorize?mock=true"}
	mStates := state.NewMemory()
	mHandler := NewHandler(config.LoadMock(), oauth.NewRegistry(mProvider), nil, nil, mStates, nil)

	w, r := createMockAuthWR(mProvider.name)
	mHandler.Auth(w, r)

	// Verify the redirect.
	require.Equal(t, http.StatusFound, w.Code, "Expected 302 status code")
	require.Equal(t, mProvider.authURL, w.Header().Get("Location"))
	require.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	require.Equal(t, "frame-ancestors 'none'", w.Header().Get("Content-Security-Policy"))

	// The state and verifier passed to the provider must be persisted.
	require.NoError(t, validateState(mProvider.argState), "Expected state to be a UUID")
	require.NotEmpty(t, mProvider.argAuthVerifier, "Expected a PKCE verifier")

	value, err := mStates.Consume(context.Background(), mProvider.argState)
	require.NoError(t, err, "Expected state to be persisted")
	require.Equal(t, state.Value{Provider: mProvider.name, CodeVerifier: mProvider.argAuthVerifier}, value)
}

func TestHandler_Auth_StateStoreFailure(t *testing.T) {
	mProvider := &mockProvider{name: "github"}
	mHandler := NewHandler(config.LoadMock(), oauth.NewRegistry(mProvider), nil, nil, failingStateStore{}, nil)

	w, r := createMockAuthWR(mProvider.name)
	mHandler.Auth(w, r)

	require.Equal(t, http.StatusInternalServerError, w.Code, "Expected 500 status code")
	require.Empty(t, mProvider.argState, "Provider must not be called")
}

// createMockAuthWR creates a mock response writer and request for the Auth handler.
func createMockAuthWR(provider string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodGet, "/auth/"+provider, nil)
	// Set path params.
	req = mux.SetURLVars(req, map[string]string{"provider": provider})
	return httptest.NewRecorder(), req
}
