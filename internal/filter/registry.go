// Package filter provides the named text transforms available to templates
// and the registry that maps filter names to them.
package filter

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gorewood/vitae/internal/data"
)

// Func is a pure, total text transform. A Null result is the Absent marker.
type Func func(data.Value) data.Value

var (
	// ErrUnknownFilter is returned when applying a name that was never registered.
	ErrUnknownFilter = errors.New("unknown filter")
	// ErrInvalidFilter is returned when registering an empty name or nil func.
	ErrInvalidFilter = errors.New("invalid filter")
)

// Registry maps filter names to funcs. Each renderer owns its own Registry;
// there is no package-level instance to mutate.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Default returns a fresh registry holding the four document filters.
func Default() *Registry {
	r := NewRegistry()
	r.funcs[NameNormalizeURL] = NormalizeURL
	r.funcs[NameURLDisplay] = URLDisplay
	r.funcs[NameEscapeLaTeX] = EscapeLaTeX
	r.funcs[NameLaTeXBraces] = LaTeXBraces
	return r
}

// Register adds fn under name, replacing any earlier registration.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidFilter)
	}
	if fn == nil {
		return fmt.Errorf("%w: nil func for %q", ErrInvalidFilter, name)
	}
	r.funcs[name] = fn
	return nil
}

// Lookup returns the filter registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered filters.
func (r *Registry) Len() int {
	return len(r.funcs)
}

// Apply runs the named filter on v.
func (r *Registry) Apply(name string, v data.Value) (data.Value, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return data.Null(), fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	return fn(v), nil
}

// Pipeline applies names left to right, each consuming the previous output.
func (r *Registry) Pipeline(v data.Value, names ...string) (data.Value, error) {
	out := v
	for _, name := range names {
		var err error
		if out, err = r.Apply(name, out); err != nil {
			return data.Null(), err
		}
	}
	return out, nil
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for name, fn := range r.funcs {
		c.funcs[name] = fn
	}
	return c
}
