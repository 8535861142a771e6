package adapters

import (
	vo "poolhub/internal/domain/integration/valueobjects"
)

// Registry maps providers to adapters. Built once at startup and injected
// wherever dispatch is needed; there is no global adapter state.
type Registry struct {
	adapters map[vo.Provider]Adapter
	fallback Adapter
}

// NewRegistry builds a registry from concrete adapters. Providers without a
// registered adapter dispatch to the fallback.
func NewRegistry(fallback Adapter, adapters ...Adapter) *Registry {
	m := make(map[vo.Provider]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Provider()] = a
	}
	return &Registry{
		adapters: m,
		fallback: fallback,
	}
}

// ForProvider returns the adapter registered for the provider, or the
// fallback when none exists.
func (r *Registry) ForProvider(provider vo.Provider) Adapter {
	if a, ok := r.adapters[provider]; ok {
		return a
	}
	return r.fallback
}
