package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/shivanshkc/ghauth/internal/config"
	"github.com/shivanshkc/ghauth/internal/repository"
	"github.com/shivanshkc/ghauth/internal/state"
	"github.com/shivanshkc/ghauth/internal/utils/errutils"
	"github.com/shivanshkc/ghauth/internal/utils/httputils"
	"github.com/shivanshkc/ghauth/pkg/oauth"
)

// Resolver maps a provider profile to a local user.
type Resolver interface {
	ResolveProfile(ctx context.Context, providerName string, profile oauth.Profile) (repository.User, error)
}

// UserFinder loads users by their local ID.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (repository.User, error)
}

// Sessions issues and verifies session tokens.
type Sessions interface {
	Issue(userID string) (string, time.Time, error)
	Verify(token string) (string, error)
}

// Handler encapsulates all REST handlers.
type Handler struct {
	config    config.Config
	providers *oauth.Registry
	resolver  Resolver
	users     UserFinder
	states    state.Store
	sessions  Sessions
}

// NewHandler creates a new Handler instance.
func NewHandler(config config.Config, providers *oauth.Registry, resolver Resolver, users UserFinder,
	states state.Store, sessions Sessions,
) *Handler {
	return &Handler{
		config:    config,
		providers: providers,
		resolver:  resolver,
		users:     users,
		states:    states,
		sessions:  sessions,
	}
}

// NotFound handler can be used to serve any unrecognized routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	httputils.WriteErr(w, errutils.NotFound())
}

// Health returns 200 if everything is running fine.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	info := map[string]any{"name": h.config.Application.Name, "providers": h.providers.Names()}
	httputils.Write(w, http.StatusOK, nil, info)
}

// stateTTL returns the configured state TTL, or the default one.
func (h *Handler) stateTTL() time.Duration {
	if h.config.State.TTL > 0 {
		return h.config.State.TTL
	}
	return state.DefaultTTL
}

// sessionCookieName returns the configured session cookie name, or the default one.
func (h *Handler) sessionCookieName() string {
	if h.config.Session.CookieName != "" {
		return h.config.Session.CookieName
	}
	return defaultSessionCookieName
}
