package gateway

import (
	"fmt"
	"sync"
)

// Registry maps gateway names to factories. Provider packages register
// themselves in init(), so importing a provider package is all it takes to
// make it selectable by name.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty gateway registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a gateway factory to the registry.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a gateway factory by name.
func (r *Registry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("payment gateway '%s' is not registered", name)
	}

	return factory, nil
}

// Names returns all registered gateway names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	return names
}

// DefaultRegistry is the global gateway registry provider packages register
// into.
var DefaultRegistry = NewRegistry()

// Register registers a gateway factory with the default registry.
func Register(name string, factory Factory) {
	DefaultRegistry.Register(name, factory)
}
