package handler

import (
	"errors"
	"regexp"

	"github.com/google/uuid"
)

var (
	errInvalidProvider = errors.New("provider must be upto 20 characters and must include only a-z, 0-9, - and _")
	errInvalidState    = errors.New("state must be a valid uuid")
	errInvalidCode     = errors.New("code must be present and must be upto 512 characters")
)

var (
	providerRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// validateProvider validates the provider name parameter when received from an external user.
func validateProvider(p string) error {
	if len(p) == 0 || len(p) > 20 {
		return errInvalidProvider
	}

	if !providerRegex.MatchString(p) {
		return errInvalidProvider
	}

	return nil
}

// validateState validates the state parameter sent back by the provider.
func validateState(s string) error {
	if _, err := uuid.Parse(s); err != nil {
		return errInvalidState
	}
	return nil
}

// validateAuthCode validates the authorization code sent by the provider.
func validateAuthCode(code string) error {
	if len(code) == 0 || len(code) > 512 {
		return errInvalidCode
	}
	return nil
}
