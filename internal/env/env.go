// Package env implements the scoped name environment AST→IR lowering uses
// to map source identifiers onto freshly minted IR variables: an explicit
// push/pop stack of scopes instead of hand-saved-and-restored locals
// around each loop body.
package env

// Env is an ordered stack of scopes, each a name-to-value mapping. Lookups
// walk from the top of the stack to the base; bindings in an inner scope
// shadow bindings of the same name further down.
type Env[V any] struct {
	scopes []map[string]V
}

// New returns an Env with a single base scope.
func New[V any]() *Env[V] {
	return &Env[V]{scopes: []map[string]V{{}}}
}

// Push opens a new scope on top of the stack.
func (e *Env[V]) Push() {
	e.scopes = append(e.scopes, map[string]V{})
}

// Pop closes the top scope. It returns false without modifying the stack if
// only the base scope remains — the base scope can never be popped.
func (e *Env[V]) Pop() bool {
	if len(e.scopes) <= 1 {
		return false
	}
	e.scopes = e.scopes[:len(e.scopes)-1]
	return true
}

// Bind writes name into the top scope, returning the previous binding in
// that same scope if one existed.
func (e *Env[V]) Bind(name string, v V) (prev V, hadPrev bool) {
	top := e.scopes[len(e.scopes)-1]
	prev, hadPrev = top[name]
	top[name] = v
	return prev, hadPrev
}

// BindBase writes name into the base scope unconditionally, regardless of how
// many scopes are currently pushed.
func (e *Env[V]) BindBase(name string, v V) {
	e.scopes[0][name] = v
}

// Find walks the scope stack from top to base and returns the first binding
// for name.
func (e *Env[V]) Find(name string) (v V, ok bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if v, ok = e.scopes[i][name]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Depth reports the number of scopes currently on the stack (at least 1).
func (e *Env[V]) Depth() int { return len(e.scopes) }
