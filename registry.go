package money

import (
	"fmt"
	"sync"
)

// Registry resolves currencies by code and caches them for its whole lifetime.
// It is safe for concurrent use. Concurrent first lookups of the same code may
// both call the resolver; the cached values are equal, so the last store wins.
type Registry struct {
	resolver MetadataResolver
	cache    sync.Map
}

func NewRegistry(resolver MetadataResolver) *Registry {
	return &Registry{resolver: resolver}
}

// Lookup returns the currency for code. It fails with ErrUnknownCurrency when the
// resolver has no metadata for the code.
func (r *Registry) Lookup(code Code) (Currency, error) {
	if !code.IsValid() {
		return Currency{}, fmt.Errorf("%w: %q", ErrUnknownCode, string(code))
	}

	if cached, ok := r.cache.Load(code); ok {
		return cached.(Currency), nil
	}

	if r.resolver == nil {
		return Currency{}, fmt.Errorf("%w: %s: no metadata resolver configured", ErrUnknownCurrency, code)
	}

	metadata, err := r.resolver.ResolveMetadata(code)
	if err != nil {
		return Currency{}, fmt.Errorf("%w: %s: %v", ErrUnknownCurrency, code, err)
	}

	currency := NewCurrency(code, metadata)
	r.cache.Store(code, currency)

	return currency, nil
}

// LookupOrMinimal is like Lookup but falls back to a currency without symbol and
// names when the metadata cannot be resolved.
func (r *Registry) LookupOrMinimal(code Code) Currency {
	currency, err := r.Lookup(code)
	if err != nil {
		return MinimalCurrency(code)
	}

	return currency
}

func (r *Registry) MustLookup(code Code) Currency {
	currency, err := r.Lookup(code)
	if err != nil {
		panic(err)
	}

	return currency
}
