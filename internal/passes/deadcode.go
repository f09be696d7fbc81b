package passes

import (
	"pulsar/internal/analysis"
	"pulsar/internal/ir"
	"pulsar/internal/pool"
	"pulsar/internal/visitor"
)

// DeadCode conservatively removes (or, under PreserveTiming, replaces with an
// equal-latency Delay) control subtrees SideEffectAnalysis found to have no
// observable effect. Effectual-ness has one addition beyond
// the raw analysis result: an Enable whose kill is an array Access is always
// effectual, since a write through memory may be observed by an access this
// compiler does not alias-analyze. Setup recomputes both the analysis and a
// keep-set folding in that rule, every call, since an earlier pass in a
// convergence region may have changed the tree since DeadCode last ran.
type DeadCode struct {
	visitor.BaseVisitor
	cp   *ir.ControlPool
	comp *ir.Component

	opts   Options
	keep   map[pool.Handle]bool
	timing *analysis.TimingResult
}

func NewDeadCode(cp *ir.ControlPool, comp *ir.Component) *DeadCode {
	return &DeadCode{cp: cp, comp: comp}
}

func (d *DeadCode) Name() string { return "dead-code" }

func (d *DeadCode) Setup(opts Options) {
	d.opts = opts
	effect := analysis.SideEffect(d.cp, d.comp)
	d.timing = analysis.ComputeTiming(d.cp, d.comp.Root)
	d.keep = make(map[pool.Handle]bool)
	markKeep(d.cp, d.comp.Root, effect, d.keep)
}

// markKeep computes, bottom-up, whether each node must be preserved: an
// Enable is kept if the raw analysis marked it effectual or its kill is an
// Access; a composite node is kept iff any descendant is.
func markKeep(cp *ir.ControlPool, h pool.Handle, effect *analysis.SideEffectResult, keep map[pool.Handle]bool) bool {
	n := cp.Get(h)
	k := false
	switch n.Kind {
	case ir.EnableNode:
		// A write through memory stays observable whether the access is
		// still index-carrying or already lowered to an address port.
		memKill := false
		switch n.Enable.Kill().(type) {
		case ir.Access, ir.LoweredAccess:
			memKill = true
		}
		k = effect.IsEffectualControl(h) || memKill
	case ir.SeqNode, ir.ParNode:
		for _, ch := range n.Children {
			if markKeep(cp, ch, effect, keep) {
				k = true
			}
		}
	case ir.ForNode:
		k = markKeep(cp, n.ForBody, effect, keep)
	case ir.IfElseNode:
		kt := markKeep(cp, n.True, effect, keep)
		kf := markKeep(cp, n.False, effect, keep)
		k = kt || kf
	case ir.EmptyNode, ir.DelayNode:
		k = false
	}
	keep[h] = k
	return k
}

func (d *DeadCode) dispose(h pool.Handle) visitor.Action {
	if d.keep[h] {
		return visitor.None()
	}
	if d.opts.Has(PreserveTiming) {
		// A combinational dead node becomes Delay(0); CollapseControl
		// drops it later. Leaving the op itself in place is never right.
		return visitor.Replace(ir.NewDelay(d.cp, d.timing.Timing(h).Latency))
	}
	return visitor.Remove()
}

func (d *DeadCode) StartEnable(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	return d.dispose(h)
}
func (d *DeadCode) StartFor(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	return d.dispose(h)
}
func (d *DeadCode) StartIfElse(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	return d.dispose(h)
}
