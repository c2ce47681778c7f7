// Package natives provides the Glitter native-function registry and the
// policy gate that decides which host-supplied natives beyond `clock` may
// be registered (spec.md §6 "registerNative", §9 supplemented feature).
package natives

import "github.com/thomasrohde/glitter/pkg/value"

// Registry holds native functions available to a session's root
// environment, keyed by name.
type Registry struct {
	fns map[string]*value.NativeFunction
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]*value.NativeFunction)}
}

// Register adds fn to the registry, overwriting any prior entry with the
// same name.
func (r *Registry) Register(fn *value.NativeFunction) {
	r.fns[fn.Name] = fn
}

// Get retrieves a native function by name, or nil if unregistered.
func (r *Registry) Get(name string) *value.NativeFunction {
	return r.fns[name]
}

// All returns every registered native function.
func (r *Registry) All() map[string]*value.NativeFunction {
	return r.fns
}
