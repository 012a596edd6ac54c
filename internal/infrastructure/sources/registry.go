package sources

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownSource is returned when no factory is registered under a name.
var ErrUnknownSource = errors.New("unknown source backend")

// GlobalRegistry holds the backends compiled into the binary.
// Backend packages (e.g. s3source) register their factory in init().
var GlobalRegistry = NewRegistry()

// Registry holds registered source factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a new Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory for a source backend.
func (r *Registry) Register(factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[factory.Name()] = factory
}

// Create builds a Reader for the given backend and config.
func (r *Registry) Create(ctx context.Context, name string, cfg Config) (Reader, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
	return factory.Create(ctx, cfg)
}

// ListRegistered returns all registered backend names, sorted.
func (r *Registry) ListRegistered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTypeInfo returns the config spec for the given backend. ok is false if the backend is not registered.
func (r *Registry) GetTypeInfo(name string) (info SourceTypeInfo, ok bool) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return SourceTypeInfo{}, false
	}
	return factory.ConfigSpec(), true
}

// AllTypesInfo returns config specs for all registered backends, sorted by type.
func (r *Registry) AllTypesInfo() []SourceTypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SourceTypeInfo, 0, len(r.factories))
	for _, factory := range r.factories {
		out = append(out, factory.ConfigSpec())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
