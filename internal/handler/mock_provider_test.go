package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"github.com/shivanshkc/ghauth/internal/repository"
	"github.com/shivanshkc/ghauth/pkg/oauth"
)

// mockProvider is a mock implementation of the oauth.Provider interface.
type mockProvider struct {
	// To mock the Name method.
	name string
	// To mock the GetAuthURL method.
	argState        string
	argAuthVerifier string
	authURL         string
	// To mock the TokenFromCode method.
	argCode          string
	argCodeVerifier  string
	errTokenFromCode error
	token            *oauth2.Token
	// To mock the Profile method.
	argToken   *oauth2.Token
	errProfile error
	profile    oauth.Profile
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) GetAuthURL(c context.Context, state, codeVerifier string) string {
	m.argState = state
	m.argAuthVerifier = codeVerifier
	return m.authURL
}

func (m *mockProvider) TokenFromCode(c context.Context, code, codeVerifier string) (*oauth2.Token, error) {
	m.argCode = code
	m.argCodeVerifier = codeVerifier
	if m.errTokenFromCode != nil {
		return nil, m.errTokenFromCode
	}
	return m.token, nil
}

func (m *mockProvider) Profile(c context.Context, token *oauth2.Token) (oauth.Profile, error) {
	m.argToken = token
	if m.errProfile != nil {
		return oauth.Profile{}, m.errProfile
	}
	return m.profile, nil
}

// Clone is a utility method to quickly create a copy.
func (m *mockProvider) Clone() *mockProvider {
	clone := &mockProvider{}
	*clone = *m
	return clone
}

// mockResolver is a mock implementation of the Resolver interface.
type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveProfile(ctx context.Context, providerName string, profile oauth.Profile) (
	repository.User, error,
) {
	args := m.Called(ctx, providerName, profile)
	return args.Get(0).(repository.User), args.Error(1)
}

// mockUserFinder is a mock implementation of the UserFinder interface.
type mockUserFinder struct {
	mock.Mock
}

func (m *mockUserFinder) FindByID(ctx context.Context, id string) (repository.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(repository.User), args.Error(1)
}

// mockSessions is a mock implementation of the Sessions interface.
type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Issue(userID string) (string, time.Time, error) {
	args := m.Called(userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockSessions) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}
