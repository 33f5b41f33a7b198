// Package project resolves Notion project relation IDs to display names.
package project

// Fallback is the name returned for any identifier missing from the table.
const Fallback = "Other"

// defaultProjects is the Ops HQ projects database as of the last export.
var defaultProjects = map[string]string{
	"2fced264-4bae-8115-a01b-fd544ed8c038": "Woojoosnt",
	"2fced264-4bae-8147-987f-d61e6171ba4c": "Ark Academy",
	"2fced264-4bae-810a-bb17-e03566a75c9b": "Oilyburger",
}

// Registry is an immutable id -> name table. It is built once at startup
// and shared by reference; the zero value resolves everything to Fallback.
type Registry struct {
	names map[string]string
}

// NewRegistry copies names into a new Registry.
func NewRegistry(names map[string]string) *Registry {
	r := &Registry{names: make(map[string]string, len(names))}
	for id, name := range names {
		r.names[id] = name
	}
	return r
}

// Default returns a Registry seeded with the built-in project table.
func Default() *Registry {
	return NewRegistry(defaultProjects)
}

// DefaultNames returns a copy of the built-in project table.
func DefaultNames() map[string]string {
	out := make(map[string]string, len(defaultProjects))
	for id, name := range defaultProjects {
		out[id] = name
	}
	return out
}

// Resolve returns the project name for id, or Fallback.
func (r *Registry) Resolve(id string) string {
	if r == nil {
		return Fallback
	}
	if name, ok := r.names[id]; ok && name != "" {
		return name
	}
	return Fallback
}

// Len returns the number of known projects.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}
