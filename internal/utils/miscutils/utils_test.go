package miscutils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMustParseURL(t *testing.T) {
	parsed := MustParseURL("https://api.github.com")
	require.Equal(t, "api.github.com", parsed.Host)

	require.Panics(t, func() { MustParseURL("://bad") }, "Expected panic for invalid URL")
}

func TestWithPath(t *testing.T) {
	base := MustParseURL("https://api.github.com/ignored?x=1")

	require.Equal(t, "https://api.github.com/user/emails?x=1", WithPath(base, "/user/emails"))
	require.Equal(t, "/ignored", base.Path, "Base URL must not be modified")
}
