package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// ErrInvalid is returned when a session token cannot be trusted.
var ErrInvalid = errors.New("invalid session token")

// Manager issues and verifies signed session tokens for resolved users.
type Manager struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager returns a Manager that signs tokens with HS256 using the given secret.
func NewManager(secret, issuer string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got: %s", ttl)
	}

	return &Manager{key: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// TTL returns the lifetime of the issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a new session token for the given user ID.
// It returns the serialized token along with its expiry.
func (m *Manager) Issue(userID string) (string, time.Time, error) {
	issuedAt := m.now().Truncate(time.Second)
	expiry := issuedAt.Add(m.ttl)

	token, err := jwt.NewBuilder().
		Subject(userID).
		Issuer(m.issuer).
		IssuedAt(issuedAt).
		Expiration(expiry).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error in jwt.Build call: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error in jwt.Sign call: %w", err)
	}

	return string(signed), expiry, nil
}

// Verify validates the given session token and returns the user ID it was issued for.
func (m *Manager) Verify(token string) (string, error) {
	parsed, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.issuer),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		return "", errors.Join(ErrInvalid, err)
	}

	subject, found := parsed.Subject()
	if !found || subject == "" {
		return "", fmt.Errorf("%w: sub field is empty", ErrInvalid)
	}

	return subject, nil
}
