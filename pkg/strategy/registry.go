// Package strategy derives random-value generators from field specs. A
// Registry maps field types to generator constructors; Derive walks a
// parametrization and produces one generator per leaf field, ready for
// composition into full input records.
package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/leanovate/gopter"

	"github.com/goliatone/go-viewcheck/pkg/schema"
)

// Constructor builds a value generator for one field spec. Constructors
// validate the constraints they consume and fail at derivation time on ones
// they cannot satisfy, never at draw time.
type Constructor func(spec schema.FieldSpec) (gopter.Gen, error)

// Registry stores generator constructors by field type, providing discovery
// and duplication safeguards. Registries are plain values; callers extend a
// copy instead of mutating a global table.
type Registry struct {
	mu           sync.RWMutex
	constructors map[schema.FieldType]Constructor
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[schema.FieldType]Constructor),
	}
}

// Register adds a constructor for a field type. Duplicate types return an
// error.
func (r *Registry) Register(fieldType schema.FieldType, constructor Constructor) error {
	if fieldType == "" {
		return fmt.Errorf("strategy: field type is required")
	}
	if constructor == nil {
		return fmt.Errorf("strategy: constructor is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[fieldType]; exists {
		return fmt.Errorf("strategy: constructor for %q already registered", fieldType)
	}

	r.constructors[fieldType] = constructor
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(fieldType schema.FieldType, constructor Constructor) {
	if err := r.Register(fieldType, constructor); err != nil {
		panic(err)
	}
}

// Lookup retrieves the constructor for a field type.
func (r *Registry) Lookup(fieldType schema.FieldType) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	constructor, ok := r.constructors[fieldType]
	if !ok {
		return nil, &UnsupportedTypeError{Type: fieldType}
	}
	return constructor, nil
}

// Has reports whether a field type has a constructor.
func (r *Registry) Has(fieldType schema.FieldType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.constructors[fieldType]
	return ok
}

// Types returns a sorted list of registered field types.
func (r *Registry) Types() []schema.FieldType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]schema.FieldType, 0, len(r.constructors))
	for fieldType := range r.constructors {
		types = append(types, fieldType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Default returns a registry with constructors for every built-in field
// type. List and table constructors resolve their element types against the
// returned registry, so types registered on it afterwards are picked up by
// containers too.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(schema.FieldNumber, NumberConstructor)
	r.MustRegister(schema.FieldInteger, IntegerConstructor)
	r.MustRegister(schema.FieldText, TextConstructor)
	r.MustRegister(schema.FieldBoolean, BooleanConstructor)
	r.MustRegister(schema.FieldOption, OptionConstructor)
	r.MustRegister(schema.FieldMultiSelect, MultiSelectConstructor)
	r.MustRegister(schema.FieldList, NewListConstructor(r))
	r.MustRegister(schema.FieldTable, NewTableConstructor(r))
	r.MustRegister(schema.FieldFile, FileConstructor)
	return r
}
