package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shivanshkc/ghauth/internal/repository"
	"github.com/shivanshkc/ghauth/pkg/oauth"
)

// Resolver determines which local user an external identity belongs to, creating or linking one if needed.
type Resolver struct {
	store repository.Store
}

// NewResolver returns a new Resolver over the given store.
func NewResolver(store repository.Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveProfile validates the given provider profile and resolves it to a local user.
//
// The first email of the profile is used for email-based linking.
func (r *Resolver) ResolveProfile(ctx context.Context, providerName string, profile oauth.Profile) (
	repository.User, error,
) {
	if err := validateProfile(profile); err != nil {
		slog.WarnContext(ctx, "profile failed validation", "provider", providerName, "error", err)
		return repository.User{}, err
	}

	return r.Resolve(ctx, providerName, profile.ID, profile.Emails[0].Value, profile.DisplayName)
}

// Resolve finds or creates the local user for the given provider identity.
//
// The lookup order is:
//  1. A user already linked to (providerName, externalID) is returned unchanged.
//  2. A user with the same email gets the account appended and its display name overwritten.
//  3. Otherwise, a new user with the single account is created.
//
// At most one write happens. Store failures are returned as *StoreError.
func (r *Resolver) Resolve(ctx context.Context, providerName, externalID, email, displayName string) (
	repository.User, error,
) {
	// 1. Lookup by provider identity.
	user, err := r.store.FindByAccount(ctx, providerName, externalID)
	if err == nil {
		slog.DebugContext(ctx, "user found by account", "id", user.ID, "provider", providerName)
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return repository.User{}, &StoreError{Op: "FindByAccount", Err: err}
	}

	account := repository.Account{Provider: providerName, UID: externalID}

	// 2. Lookup by email.
	user, err = r.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := r.store.LinkAccount(ctx, user.ID, account, displayName); err != nil {
			return r.onWriteErr(ctx, "LinkAccount", providerName, externalID, err)
		}

		// Email is never overwritten by a login.
		user.Accounts = append(user.Accounts, account)
		user.DisplayName = displayName

		slog.InfoContext(ctx, "account linked to existing user", "id", user.ID, "provider", providerName)
		return user, nil
	case !errors.Is(err, repository.ErrNotFound):
		return repository.User{}, &StoreError{Op: "FindByEmail", Err: err}
	}

	// 3. Create.
	user, err = r.store.CreateUser(ctx, repository.User{
		Email:       email,
		DisplayName: displayName,
		Accounts:    []repository.Account{account},
	})
	if err != nil {
		return r.onWriteErr(ctx, "CreateUser", providerName, externalID, err)
	}

	slog.InfoContext(ctx, "new user created", "id", user.ID, "provider", providerName)
	return user, nil
}

// onWriteErr handles a failed write.
//
// A conflict means a concurrent login for the same identity won the race and the account now exists, so the
// account lookup is repeated once. Everything else is a StoreError.
func (r *Resolver) onWriteErr(ctx context.Context, op, providerName, externalID string, err error) (
	repository.User, error,
) {
	if !errors.Is(err, repository.ErrConflict) {
		return repository.User{}, &StoreError{Op: op, Err: err}
	}

	slog.WarnContext(ctx, "write conflict, repeating account lookup", "op", op, "provider", providerName)

	user, lookupErr := r.store.FindByAccount(ctx, providerName, externalID)
	if lookupErr != nil {
		// The conflict came from something other than this identity, for example the email.
		return repository.User{}, &StoreError{Op: op, Err: err}
	}

	return user, nil
}

// validateProfile makes sure the profile carries everything Resolve needs.
func validateProfile(profile oauth.Profile) error {
	if strings.TrimSpace(profile.ID) == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if len(profile.Emails) == 0 {
		return &ValidationError{Field: "emails", Reason: "at least one email is required"}
	}
	if strings.TrimSpace(profile.Emails[0].Value) == "" {
		return &ValidationError{Field: "emails[0].value", Reason: "must not be empty"}
	}
	return nil
}
