package oauth

import (
	"maps"
	"slices"
)

// Registry holds the configured providers keyed by name.
//
// A Registry is immutable once created, so it can be shared between goroutines without locking.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry returns a registry of the given providers.
// If two providers have the same name, the latter wins.
func NewRegistry(providers ...Provider) *Registry {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// With returns a new registry that holds all providers of this one plus the given provider.
// The receiver is not modified.
func (r *Registry) With(provider Provider) *Registry {
	m := maps.Clone(r.providers)
	if m == nil {
		m = map[string]Provider{}
	}
	m[provider.Name()] = provider
	return &Registry{providers: m}
}

// Get returns the provider with the given name, or nil if it is not registered.
func (r *Registry) Get(name string) Provider {
	if r == nil {
		return nil
	}
	return r.providers[name]
}

// Names returns the sorted names of all registered providers.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.providers))
}
