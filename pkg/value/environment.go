package value

import "fmt"

// Environment is a lexical frame: a name→Value mapping plus an optional
// parent link (spec.md §3 Environment, §4.4). Frames form a tree with
// back-pointers to parents; a Function value shares ownership of its
// defining environment via the closure field. Go's garbage collector
// already reclaims cycles a closure-in-its-own-environment creates, so
// Environment uses plain pointers (spec.md §9 design note).
type Environment struct {
	parent   *Environment
	bindings map[string]Value
}

// NewEnvironment creates a root environment with no parent.
func NewEnvironment() *Environment {
	return &Environment{bindings: make(map[string]Value)}
}

// Child creates a new environment whose parent is e.
func (e *Environment) Child() *Environment {
	return &Environment{parent: e, bindings: make(map[string]Value)}
}

// Define unconditionally binds name in this frame, allowed to overwrite.
func (e *Environment) Define(name string, v Value) {
	e.bindings[name] = v
}

// ancestor walks distance parent links from e.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.parent
	}
	return env
}

// GetAt walks distance parent links, then looks up name there.
func (e *Environment) GetAt(name string, distance int) (Value, error) {
	env := e.ancestor(distance)
	v, ok := env.bindings[name]
	if !ok {
		return nil, fmt.Errorf("undefined variable '%s'", name)
	}
	return v, nil
}

// SetAt walks distance parent links, then assigns name there. Assignment
// requires the name already exist at the target frame.
func (e *Environment) SetAt(name string, v Value, distance int) error {
	env := e.ancestor(distance)
	if _, ok := env.bindings[name]; !ok {
		return fmt.Errorf("undefined variable '%s'", name)
	}
	env.bindings[name] = v
	return nil
}

// root returns the outermost ancestor of e.
func (e *Environment) root() *Environment {
	env := e
	for env.parent != nil {
		env = env.parent
	}
	return env
}

// GetGlobal looks up name in the root frame (used when the resolver
// assigned scopeDistance -1).
func (e *Environment) GetGlobal(name string) (Value, error) {
	root := e.root()
	v, ok := root.bindings[name]
	if !ok {
		return nil, fmt.Errorf("undefined variable '%s'", name)
	}
	return v, nil
}

// SetGlobal assigns name in the root frame. The name must already exist.
func (e *Environment) SetGlobal(name string, v Value) error {
	root := e.root()
	if _, ok := root.bindings[name]; !ok {
		return fmt.Errorf("undefined variable '%s'", name)
	}
	root.bindings[name] = v
	return nil
}
