// Package ir defines Pulsar's intermediate representation: the port/cell/
// primitive-op value types, the pool-allocated control tree, and the
// Component compilation unit. It has no dependency on
// the front-end or on the pass framework — passes and analyses import it, not
// the other way around.
package ir

import "fmt"

// Variable is an opaque, totally ordered, hashable identifier minted by a
// VarGen. It is the unit of SSA-like naming inside a Component. The zero
// Variable is never minted by VarGen.Fresh and is reserved as "no variable."
type Variable struct {
	id   uint64
	name string
}

// ID returns the variable's unique ordinal, used for total ordering.
func (v Variable) ID() uint64 { return v.id }

// Name returns the diagnostic name the variable was minted with (may be
// empty for compiler-synthesized temporaries).
func (v Variable) Name() string { return v.name }

// Less gives Variable a total order, used wherever passes need deterministic
// iteration over a set of variables (e.g. when producing diagnostics).
func (v Variable) Less(other Variable) bool { return v.id < other.id }

func (v Variable) String() string {
	if v.name != "" {
		return fmt.Sprintf("%s.%d", v.name, v.id)
	}
	return fmt.Sprintf("%%t%d", v.id)
}

// VarGen mints fresh, strictly increasing Variables. A Component's lowering
// pass owns exactly one VarGen for its whole body, so every Variable it
// produces is distinct within that component.
type VarGen struct {
	next uint64
}

// NewVarGen returns a generator whose first minted Variable has ordinal 1 (0
// is reserved as "absent").
func NewVarGen() *VarGen { return &VarGen{next: 1} }

// Fresh mints a new Variable carrying the given diagnostic name (may be "").
func (g *VarGen) Fresh(name string) Variable {
	v := Variable{id: g.next, name: name}
	g.next++
	return v
}
