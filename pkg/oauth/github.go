package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strconv"

	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"

	"github.com/shivanshkc/ghauth/internal/utils/httputils"
	"github.com/shivanshkc/ghauth/internal/utils/miscutils"
)

const (
	githubProviderName = "github"
	// Source: https://docs.github.com/en/rest/users/users#get-the-authenticated-user
	githubAPIURL = "https://api.github.com"
	// githubAccept pins the REST API media type.
	githubAccept = "application/vnd.github+json"
)

// parsedGitHubAPIURL removes the need to repeatedly parse the API URL.
var parsedGitHubAPIURL = miscutils.MustParseURL(githubAPIURL)

var _ Provider = (*GitHub)(nil)

// GitHub implements the Provider interface for GitHub.
//
// Read documentation here: https://docs.github.com/en/apps/oauth-apps/building-oauth-apps/authorizing-oauth-apps
type GitHub struct {
	config     *oauth2.Config
	apiURL     *url.URL
	httpClient *http.Client
}

// githubUser is the body schema of the response returned by GitHub's /user endpoint.
type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	// Email is the public email of the user. It is empty if the user keeps it private.
	Email string `json:"email"`
}

// githubEmail is an element of the response returned by GitHub's /user/emails endpoint.
type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// NewGitHub instantiates a new GitHub provider instance.
//
// The scopes should include "user:email" so that private emails can be obtained.
func NewGitHub(clientID, clientSecret, callbackURL string, scopes []string) *GitHub {
	return &GitHub{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       slices.Clone(scopes),
			Endpoint:     oauthgithub.Endpoint,
		},
		apiURL:     parsedGitHubAPIURL,
		httpClient: &http.Client{},
	}
}

func (g *GitHub) Name() string {
	return githubProviderName
}

func (g *GitHub) GetAuthURL(ctx context.Context, state, codeVerifier string) string {
	var opts []oauth2.AuthCodeOption
	if codeVerifier != "" {
		opts = append(opts, oauth2.S256ChallengeOption(codeVerifier))
	}
	return g.config.AuthCodeURL(state, opts...)
}

func (g *GitHub) TokenFromCode(ctx context.Context, code, codeVerifier string) (*oauth2.Token, error) {
	var opts []oauth2.AuthCodeOption
	if codeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(codeVerifier))
	}

	token, err := g.config.Exchange(g.withClient(ctx), code, opts...)
	if err != nil {
		return nil, fmt.Errorf("error in config.Exchange call: %w", err)
	}

	return token, nil
}

func (g *GitHub) Profile(ctx context.Context, token *oauth2.Token) (Profile, error) {
	client := g.config.Client(g.withClient(ctx), token)

	var user githubUser
	if err := g.getJSON(ctx, client, "/user", &user); err != nil {
		return Profile{}, fmt.Errorf("failed to fetch user: %w", err)
	}

	profile := Profile{Username: user.Login, DisplayName: user.Name}
	if user.ID != 0 {
		profile.ID = strconv.FormatInt(user.ID, 10)
	}
	// GitHub doesn't require users to set a name.
	if profile.DisplayName == "" {
		profile.DisplayName = user.Login
	}

	if user.Email != "" {
		// GitHub does not report the verification status of the public email.
		profile.Emails = []Email{{Value: user.Email, Primary: true}}
		return profile, nil
	}

	// The public email is hidden. The emails endpoint requires the user:email scope.
	var emails []githubEmail
	if err := g.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		// Without an email the profile is incomplete, which the caller treats as a failed login.
		slog.WarnContext(ctx, "failed to fetch user emails", "login", user.Login, "error", err)
		return profile, nil
	}

	profile.Emails = verifiedEmails(emails)
	return profile, nil
}

// withClient attaches the provider's HTTP client to the context for use by the oauth2 package.
func (g *GitHub) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
}

// getJSON sends a GET request to the given API path and decodes the JSON response into target.
func (g *GitHub) getJSON(ctx context.Context, client *http.Client, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, miscutils.WithPath(g.apiURL, path), nil)
	if err != nil {
		return fmt.Errorf("error in http.NewRequestWithContext call: %w", err)
	}
	req.Header.Set("Accept", githubAccept)

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error in client.Do call: %w", err)
	}
	// Close response body upon return.
	defer func() { _ = res.Body.Close() }()

	// Check if the request failed.
	if !httputils.Is2xx(res.StatusCode) {
		// Decode response body only for logging.
		resBody, err := io.ReadAll(res.Body)
		if err != nil {
			resBody = []byte("error in io.ReadAll call: " + err.Error())
		}
		slog.ErrorContext(ctx, "request failed", "path", path, "code", res.StatusCode, "body", string(resBody))
		return fmt.Errorf("request failed with status code: %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(target); err != nil {
		return fmt.Errorf("error in json Decode call: %w", err)
	}

	return nil
}

// verifiedEmails keeps only verified emails and puts the primary one first.
func verifiedEmails(emails []githubEmail) []Email {
	result := make([]Email, 0, len(emails))
	for _, e := range emails {
		if e.Verified && e.Email != "" {
			result = append(result, Email{Value: e.Email, Primary: e.Primary, Verified: true})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Primary && !result[j].Primary
	})

	return result
}
