package currency

import (
	"fmt"
	"sync"
)

// Registry is a thread-safe registry of known currencies.
type Registry struct {
	bySymbol map[string]*Currency
	mu       sync.RWMutex
}

// NewRegistry creates a new empty currency registry.
func NewRegistry() *Registry {
	return &Registry{
		bySymbol: make(map[string]*Currency),
	}
}

// Register adds a currency to the registry.
// Panics if the symbol is already registered.
func (r *Registry) Register(c *Currency) {
	if c == nil {
		panic("currency: cannot register nil currency")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bySymbol[c.Symbol()]; exists {
		panic(fmt.Sprintf("currency: %s already registered", c.Symbol()))
	}
	r.bySymbol[c.Symbol()] = c
}

// Get retrieves a currency by symbol.
func (r *Registry) Get(symbol string) (*Currency, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.bySymbol[symbol]
	return c, ok
}

// MustGet retrieves a currency by symbol, panics if not found.
func (r *Registry) MustGet(symbol string) *Currency {
	c, ok := r.Get(symbol)
	if !ok {
		panic(fmt.Sprintf("currency: %s not found in registry", symbol))
	}
	return c
}

// Has returns true if the symbol is registered.
func (r *Registry) Has(symbol string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bySymbol[symbol]
	return ok
}

// Count returns the number of registered currencies.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySymbol)
}
