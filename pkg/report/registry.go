package report

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores writers by name, providing discovery and duplication
// safeguards. Callers can embed or wrap it for dependency injection.
type Registry struct {
	mu      sync.RWMutex
	writers map[string]Writer
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		writers: make(map[string]Writer),
	}
}

// Builtin returns a registry with the text, json and html writers already
// registered under their default names.
func Builtin() *Registry {
	r := NewRegistry()
	r.MustRegister(NewTextWriter())
	r.MustRegister(NewJSONWriter())
	r.MustRegister(NewHTMLWriter())
	return r
}

// Register adds a writer by its Name(). Duplicate names return an error.
func (r *Registry) Register(writer Writer) error {
	if writer == nil {
		return fmt.Errorf("report: writer is required")
	}
	name := writer.Name()
	if name == "" {
		return fmt.Errorf("report: writer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.writers[name]; exists {
		return fmt.Errorf("report: writer %q already registered", name)
	}

	r.writers[name] = writer
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(writer Writer) {
	if err := r.Register(writer); err != nil {
		panic(err)
	}
}

// Get retrieves a writer by name.
func (r *Registry) Get(name string) (Writer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	writer, ok := r.writers[name]
	if !ok {
		return nil, fmt.Errorf("report: writer %q not found", name)
	}
	return writer, nil
}

// MustGet panics if the writer is missing.
func (r *Registry) MustGet(name string) Writer {
	writer, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return writer
}

// List returns the sorted writer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.writers))
	for name := range r.writers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a writer is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.writers[name]
	return ok
}
