// Package app registers views together with their parametrizations so
// suites and tools can discover them by name.
package app

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-viewcheck/pkg/schema"
	"github.com/goliatone/go-viewcheck/pkg/settings"
)

// Entry binds one view to its parametrization plus optional per-view
// exploration overrides.
type Entry struct {
	Parametrization schema.Parametrization
	View            schema.View
	Options         []settings.Option
}

// Loader yields the views an exploration should cover, keyed by view name.
type Loader interface {
	Load(ctx context.Context) (map[string]Entry, error)
}

// App is an in-process view registry. It implements Loader.
type App struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty app registry.
func New() *App {
	return &App{entries: make(map[string]Entry)}
}

// Register adds a view under a unique name. A parametrization without a
// name inherits the view name.
func (a *App) Register(name string, entry Entry) error {
	if name == "" {
		return fmt.Errorf("app: view name is required")
	}
	if entry.View == nil {
		return fmt.Errorf("app: view %q is nil", name)
	}
	if entry.Parametrization.Name == "" {
		entry.Parametrization.Name = name
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.entries[name]; exists {
		return fmt.Errorf("app: view %q already registered", name)
	}

	a.entries[name] = entry
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (a *App) MustRegister(name string, entry Entry) {
	if err := a.Register(name, entry); err != nil {
		panic(err)
	}
}

// Load returns a copy of the registered entries.
func (a *App) Load(ctx context.Context) (map[string]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[string]Entry, len(a.entries))
	for name, entry := range a.entries {
		out[name] = entry
	}
	return out, nil
}

// Views returns the registered view names in sorted order.
func (a *App) Views() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.entries))
	for name := range a.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bind pairs externally loaded parametrizations with view functions by
// name. Every parametrization must find its view and every view its
// parametrization; a partial pairing is an error, not a partial app.
func Bind(params map[string]schema.Parametrization, views map[string]schema.View) (*App, error) {
	for name := range views {
		if _, ok := params[name]; !ok {
			return nil, fmt.Errorf("app: view %q has no parametrization", name)
		}
	}

	a := New()
	for name, p := range params {
		view, ok := views[name]
		if !ok {
			return nil, fmt.Errorf("app: parametrization %q has no view", name)
		}
		if err := a.Register(name, Entry{Parametrization: p, View: view}); err != nil {
			return nil, err
		}
	}
	return a, nil
}
