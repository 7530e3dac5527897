package oauth

import (
	"context"

	"golang.org/x/oauth2"
)

// Provider represents an OAuth provider.
type Provider interface {
	// Name provides the name of the provider.
	Name() string

	// GetAuthURL returns the URL to the auth page of the provider.
	//
	// The "state" parameter is returned as is in the provider's callback
	// and can be used to correlate it with the original redirect.
	// The codeVerifier is the PKCE verifier. Its S256 challenge is sent to the provider.
	GetAuthURL(ctx context.Context, state, codeVerifier string) string

	// TokenFromCode converts the auth code to an access token.
	TokenFromCode(ctx context.Context, code, codeVerifier string) (*oauth2.Token, error)

	// Profile fetches the user's profile using the given access token.
	Profile(ctx context.Context, token *oauth2.Token) (Profile, error)
}

// Profile is the normalized identity data returned by a provider after authorization.
type Profile struct {
	// ID is the provider-scoped unique identifier of the user.
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	// Emails are ordered by preference. The first one is the user's primary email.
	Emails []Email `json:"emails"`
}

// Email is one of the email addresses of a Profile.
type Email struct {
	Value    string `json:"value"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}
