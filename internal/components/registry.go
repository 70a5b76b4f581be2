package components

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// Registry is the thread-safe in-memory implementation of
// interfaces.ComponentRegistry.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	folded  map[string]string
	checker DefinitionValidator
}

type entry struct {
	def       interfaces.ComponentDefinition
	schema    *jsonschema.Schema
	component interfaces.Component
}

// DefinitionValidator abstracts definition validation so callers can customise
// behaviour in tests.
type DefinitionValidator interface {
	ValidateDefinition(def interfaces.ComponentDefinition) error
}

// NewRegistry constructs a registry using the supplied validator. A nil
// validator skips definition checks but schemas are still compiled.
func NewRegistry(validator DefinitionValidator) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		folded:  make(map[string]string),
		checker: validator,
	}
}

// Register stores a definition if it passes validation and the name is not
// taken. Names are compared case-insensitively for duplicates.
func (r *Registry) Register(def interfaces.ComponentDefinition) error {
	def.Name = strings.TrimSpace(def.Name)
	if def.Name == "" {
		return ErrInvalidDefinition
	}
	if r.checker != nil {
		if err := r.checker.ValidateDefinition(def); err != nil {
			return err
		}
	}

	e, err := newEntry(def)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.folded[strings.ToLower(def.Name)]; exists {
		return ErrDuplicateDefinition
	}
	r.entries[def.Name] = e
	r.folded[strings.ToLower(def.Name)] = def.Name
	return nil
}

func newEntry(def interfaces.ComponentDefinition) (*entry, error) {
	e := &entry{def: def}
	if len(def.PropsSchema) > 0 {
		schema, err := compileSchema(def.Name, def.PropsSchema)
		if err != nil {
			return nil, fmt.Errorf("%w: component %q schema: %v", ErrInvalidDefinition, def.Name, err)
		}
		e.schema = schema
	}

	impl := def.Component
	if impl == nil {
		if strings.TrimSpace(def.Template) == "" {
			return nil, fmt.Errorf("%w: component %q needs an implementation or template", ErrInvalidDefinition, def.Name)
		}
		var err error
		if impl, err = NewTemplateComponent(def.Name, def.Template); err != nil {
			return nil, err
		}
	}
	if e.schema != nil {
		impl = &validatingComponent{name: def.Name, inner: impl, schema: e.schema}
	}
	e.component = impl
	return e, nil
}

// Get returns the stored definition. The exact tag name wins over a
// case-insensitive match.
func (r *Registry) Get(name string) (interfaces.ComponentDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e := r.lookup(name); e != nil {
		return e.def, true
	}
	return interfaces.ComponentDefinition{}, false
}

// Component returns the render implementation for name, schema checks included.
func (r *Registry) Component(name string) (interfaces.Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e := r.lookup(name); e != nil {
		return e.component, true
	}
	return nil, false
}

func (r *Registry) lookup(name string) *entry {
	if e, ok := r.entries[name]; ok {
		return e
	}
	if canonical, ok := r.folded[strings.ToLower(name)]; ok {
		return r.entries[canonical]
	}
	return nil
}

// List returns all registered definitions in name order.
func (r *Registry) List() []interfaces.ComponentDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]interfaces.ComponentDefinition, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, e.def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Names returns the registered tag names in order.
func (r *Registry) Names() []string {
	defs := r.List()
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}

// Components returns a snapshot map suitable for a compile request.
func (r *Registry) Components() map[string]interfaces.Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]interfaces.Component, len(r.entries))
	for name, e := range r.entries {
		out[name] = e.component
	}
	return out
}

// Remove deletes the definition if it exists.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.lookup(name)
	if e == nil {
		return
	}
	delete(r.entries, e.def.Name)
	delete(r.folded, strings.ToLower(e.def.Name))
}

var _ interfaces.ComponentRegistry = (*Registry)(nil)
