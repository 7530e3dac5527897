package state

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is the max allowed time for a provider to invoke the callback API.
// If the provider is too late, the state will be expired and the flow will fail.
const DefaultTTL = 10 * time.Minute

// ErrNotFound is returned when a state is absent, expired or already consumed.
var ErrNotFound = errors.New("state not found")

// Value is the data persisted against a state ID for the duration of one login attempt.
type Value struct {
	// Provider is the name of the provider the flow was started for.
	Provider string `json:"provider"`
	// CodeVerifier is the PKCE verifier whose challenge was sent to the provider.
	CodeVerifier string `json:"code_verifier"`
}

// Store persists OAuth states between the redirect and the callback.
//
// A state can be consumed only once, which protects the callback from replays and CSRF.
type Store interface {
	// Put stores the value against the ID. It expires after the given TTL.
	Put(ctx context.Context, id string, value Value, ttl time.Duration) error
	// Consume loads and deletes the value of the given ID.
	Consume(ctx context.Context, id string) (Value, error)
}
