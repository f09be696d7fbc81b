// Package visitor implements the structural control-tree walk every pass is
// built from: depth-first traversal with start/finish hooks per
// node variant, each returning a rewrite Action.
package visitor

import "pulsar/internal/pool"

// ActionKind is one of the four rewrite actions a hook may request.
type ActionKind int

const (
	// NoneKind requests no change.
	NoneKind ActionKind = iota
	// ModifiedKind marks the node as mutated in place (the node's fields
	// changed but its identity/handle did not), recorded as "did modify."
	ModifiedKind
	// RemoveKind replaces this node with Empty in the parent.
	RemoveKind
	// ReplaceKind replaces this node wholesale with NewNode.
	ReplaceKind
)

// Action is the value a Start/Finish hook returns.
type Action struct {
	Kind    ActionKind
	NewNode pool.Handle // meaningful only when Kind == ReplaceKind
}

// None is the no-op Action.
func None() Action { return Action{Kind: NoneKind} }

// ModifiedInternally reports an in-place mutation.
func ModifiedInternally() Action { return Action{Kind: ModifiedKind} }

// Remove requests the node be replaced with Empty in its parent.
func Remove() Action { return Action{Kind: RemoveKind} }

// Replace requests the node be replaced wholesale with newNode.
func Replace(newNode pool.Handle) Action { return Action{Kind: ReplaceKind, NewNode: newNode} }

// Dirty reports whether this action, on its own, should mark the traversal
// as having modified the component.
func (a Action) Dirty() bool { return a.Kind != NoneKind }
