package analysis

import (
	"pulsar/internal/ir"
	"pulsar/internal/pool"
)

// TimingResult maps every Control node in a traversed subtree to its
// composed Timing.
type TimingResult struct {
	byNode map[pool.Handle]ir.Timing
}

// Timing returns the composed timing for h, or Combinational if h was never
// visited by the Timing analysis that produced this result.
func (r *TimingResult) Timing(h pool.Handle) ir.Timing {
	return r.byNode[h]
}

// ComputeTiming walks the subtree rooted at root and composes each node's
// Timing from its children:
//
//	Enable: the latency CalculateTiming wrote as this node's pool metadata.
//	Delay(n): Timing(n).
//	For: Timing(init-latency) then Timing(body).
//	Seq: fold children by then.
//	Par: fold children by max.
//	IfElse: max of branches.
func ComputeTiming(cp *ir.ControlPool, root pool.Handle) *TimingResult {
	res := &TimingResult{byNode: make(map[pool.Handle]ir.Timing)}
	computeTiming(cp, root, res)
	return res
}

func computeTiming(cp *ir.ControlPool, h pool.Handle, res *TimingResult) ir.Timing {
	n := cp.Get(h)
	var t ir.Timing

	switch n.Kind {
	case ir.EnableNode:
		if m, ok := cp.GetMetadata(h); ok {
			t = m
		} else {
			t = ir.Combinational()
		}
	case ir.DelayNode:
		t = ir.Sequential(n.DelayCycles)
	case ir.EmptyNode:
		t = ir.Combinational()
	case ir.ForNode:
		body := computeTiming(cp, n.ForBody, res)
		t = ir.Sequential(n.ForInitLatency).Then(body)
	case ir.SeqNode:
		t = ir.Combinational()
		for _, ch := range n.Children {
			t = t.Then(computeTiming(cp, ch, res))
		}
	case ir.ParNode:
		t = ir.Combinational()
		for _, ch := range n.Children {
			t = t.Max(computeTiming(cp, ch, res))
		}
	case ir.IfElseNode:
		tb := computeTiming(cp, n.True, res)
		fb := computeTiming(cp, n.False, res)
		t = tb.Max(fb)
	}

	res.byNode[h] = t
	return t
}
