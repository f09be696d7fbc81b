// Package analysis implements the two read-only analyses passes consume
//: SideEffectAnalysis and TimingAnalysis. Unlike the rewriting
// passes in package passes, these never mutate the control tree, so they are
// plain recursive functions over *ir.ControlPool rather than
// visitor.Visitor implementations.
package analysis

import (
	"pulsar/internal/ir"
	"pulsar/internal/pool"
)

// SideEffectResult is the output of SideEffect: the set of effectual ports
// (keyed by Port.Key() — see ir.PortPool's doc comment for why a canonical
// string key stands in for a true pool handle here) and the set of
// effectual control node handles.
type SideEffectResult struct {
	EffectualPorts   map[string]bool
	EffectualControl map[pool.Handle]bool
}

// IsEffectualPort reports whether p is in the effectual-port set.
func (r *SideEffectResult) IsEffectualPort(p ir.Port) bool {
	return r.EffectualPorts[p.Key()]
}

// IsEffectualControl reports whether the control node at h has any
// observable effect.
func (r *SideEffectResult) IsEffectualControl(h pool.Handle) bool {
	return r.EffectualControl[h]
}

func markVarEffectual(r *SideEffectResult, v ir.Variable) {
	r.EffectualPorts[(ir.VariablePort{Var: v}).Key()] = true
}

// SideEffect computes effectual ports and effectual control nodes for
// comp. The seed is comp's output variables; an Enable is effectual
// iff its kill corresponds to an already-effectual port, in which case its
// gen-used variables join the effectual-port set and propagation continues.
//
// Seq children are walked right-to-left rather than in source order. A
// single bottom-up pass only reaches the fixed point if, within a
// sequence, a later statement's demand for a variable is visible before an
// earlier statement defining that variable is classified (in
// `r1 = a + b; r2 = r1 * c`, r1's Add stays alive on account of r2's Mul,
// which executes after it). Walking right-to-left gives exactly that
// single backward pass; Par's children share no execution order so they
// are walked in any order against the same base set.
func SideEffect(cp *ir.ControlPool, comp *ir.Component) *SideEffectResult {
	res := &SideEffectResult{
		EffectualPorts:   make(map[string]bool),
		EffectualControl: make(map[pool.Handle]bool),
	}
	for _, v := range comp.OutputVars() {
		markVarEffectual(res, v)
	}
	walkSideEffect(cp, comp.Root, res)
	return res
}

func walkSideEffect(cp *ir.ControlPool, h pool.Handle, res *SideEffectResult) bool {
	n := cp.Get(h)
	effectual := false

	switch n.Kind {
	case ir.EnableNode:
		op := n.Enable
		if kv, ok := ir.KillVar(op); ok && res.EffectualPorts[(ir.VariablePort{Var: kv}).Key()] {
			effectual = true
			for _, v := range ir.GenUsed(op) {
				markVarEffectual(res, v)
			}
		}
	case ir.SeqNode:
		for i := len(n.Children) - 1; i >= 0; i-- {
			if walkSideEffect(cp, n.Children[i], res) {
				effectual = true
			}
		}
	case ir.ParNode:
		// Par children share no execution order, so a child may demand a
		// variable that another child defines regardless of position.
		// Re-sweep until the port set stops growing (bounded by the child
		// count, since each sweep that continues added at least one port).
		for sweep := 0; sweep < len(n.Children); sweep++ {
			before := len(res.EffectualPorts)
			for i := len(n.Children) - 1; i >= 0; i-- {
				if walkSideEffect(cp, n.Children[i], res) {
					effectual = true
				}
			}
			if len(res.EffectualPorts) == before {
				break
			}
		}
	case ir.ForNode:
		if walkSideEffect(cp, n.ForBody, res) {
			effectual = true
		}
	case ir.IfElseNode:
		tb := walkSideEffect(cp, n.True, res)
		fb := walkSideEffect(cp, n.False, res)
		if tb || fb {
			effectual = true
			for _, v := range ir.Vars(n.Cond) {
				markVarEffectual(res, v)
			}
		}
	case ir.EmptyNode, ir.DelayNode:
		// Neither has any observable effect on its own.
	}

	if effectual {
		res.EffectualControl[h] = true
	}
	return effectual
}
