// Package env implements musique's lexically nested name environment.
// It is generic over the stored value type so that internal/value (which
// defines the Block type captured by an Environment) does not need to
// import back into a package that in turn imports internal/value — the
// generic parameter breaks what would otherwise be an import cycle.
package env

// Environment is one lexical scope: a set of name bindings plus an
// optional parent scope to search when a name isn't found locally. Block
// captures form a DAG of Environments, not a tree, since the same parent
// scope can be captured by many nested blocks.
type Environment[V any] struct {
	parent *Environment[V]
	vars   map[string]V
}

// New creates a root environment with no parent.
func New[V any]() *Environment[V] {
	return &Environment[V]{vars: make(map[string]V)}
}

// Child creates a new scope nested inside e.
func (e *Environment[V]) Child() *Environment[V] {
	return &Environment[V]{parent: e, vars: make(map[string]V)}
}

// Define binds name in e's own scope, shadowing any outer binding of the
// same name.
func (e *Environment[V]) Define(name string, v V) {
	e.vars[name] = v
}

// Lookup searches e and its ancestors for name.
func (e *Environment[V]) Lookup(name string) (V, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if v, ok := scope.vars[name]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Set assigns to the nearest enclosing scope that already defines name,
// without creating a new binding. It reports whether such a scope existed.
func (e *Environment[V]) Set(name string, v V) bool {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.vars[name]; ok {
			scope.vars[name] = v
			return true
		}
	}
	return false
}

// Has reports whether name is visible from e, without retrieving its value.
func (e *Environment[V]) Has(name string) bool {
	_, ok := e.Lookup(name)
	return ok
}

// Names returns the names bound directly in e's own scope (not ancestors),
// primarily for REPL introspection and the `doc`/environment-dump builtins.
func (e *Environment[V]) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	return names
}

// Parent returns e's enclosing scope, or nil at the root.
func (e *Environment[V]) Parent() *Environment[V] {
	return e.parent
}
