package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a per-language service instance
type Factory[T any] func(language string) (T, error)

// ServiceRegistry selects a service implementation by language identifier.
// It is populated explicitly at process start; instances are built lazily
// on first lookup and then reused.
type ServiceRegistry[T any] struct {
	mu        sync.Mutex
	factories map[string]Factory[T]
	instances map[string]T
}

// NewServiceRegistry creates an empty registry
func NewServiceRegistry[T any]() *ServiceRegistry[T] {
	return &ServiceRegistry[T]{
		factories: make(map[string]Factory[T]),
		instances: make(map[string]T),
	}
}

// Register binds factory to language. Registering a language twice is an error.
func (r *ServiceRegistry[T]) Register(language string, factory Factory[T]) error {
	if language == "" {
		return fmt.Errorf("language identifier is required")
	}
	if factory == nil {
		return fmt.Errorf("factory for %s is nil", language)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[language]; exists {
		return fmt.Errorf("service already registered for language %s", language)
	}
	r.factories[language] = factory
	return nil
}

// Lookup returns the service for language, building it on first use.
// ok is false when nothing is registered for language.
func (r *ServiceRegistry[T]) Lookup(language string) (svc T, ok bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst, exists := r.instances[language]; exists {
		return inst, true, nil
	}
	factory, exists := r.factories[language]
	if !exists {
		return svc, false, nil
	}
	inst, err := factory(language)
	if err != nil {
		return svc, true, fmt.Errorf("failed to build service for %s: %w", language, err)
	}
	r.instances[language] = inst
	return inst, true, nil
}

// Languages returns the sorted registered language identifiers
func (r *ServiceRegistry[T]) Languages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
