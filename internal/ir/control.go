package ir

import (
	"fmt"

	"pulsar/internal/pool"
)

// NodeKind tags which of the seven Control variants a Node holds.
// Control is modeled as one tagged struct rather than seven types
// behind an interface because every node, regardless of variant, must live
// in the same pool.Pool[Node, Timing] and be addressed by the same Handle
// type.
type NodeKind int

const (
	EmptyNode NodeKind = iota
	DelayNode
	ForNode
	SeqNode
	ParNode
	IfElseNode
	EnableNode
)

func (k NodeKind) String() string {
	switch k {
	case EmptyNode:
		return "empty"
	case DelayNode:
		return "delay"
	case ForNode:
		return "for"
	case SeqNode:
		return "seq"
	case ParNode:
		return "par"
	case IfElseNode:
		return "if"
	case EnableNode:
		return "enable"
	default:
		return "?"
	}
}

// Node is one Control tree node. Only the fields relevant to Kind are
// meaningful; constructors below are the supported way to build one.
type Node struct {
	Kind NodeKind

	// DelayNode
	DelayCycles int

	// ForNode
	ForVar         Variable
	ForLower       Port
	ForUpper       Port
	ForInitLatency int
	ForBody        pool.Handle

	// SeqNode / ParNode
	Children []pool.Handle

	// IfElseNode
	Cond  Port
	True  pool.Handle
	False pool.Handle

	// EnableNode
	Enable Op
}

// ControlPool is the arena Control nodes live in. Its metadata slot is the
// node's Timing, set by CalculateTiming and read by later passes/analyses.
type ControlPool = pool.Pool[Node, Timing]

// NewControlPool returns an empty ControlPool.
func NewControlPool() *ControlPool { return pool.New[Node, Timing](0) }

func NewEmpty(p *ControlPool) pool.Handle {
	return p.Add(Node{Kind: EmptyNode})
}

func NewDelay(p *ControlPool, n int) pool.Handle {
	return p.Add(Node{Kind: DelayNode, DelayCycles: n})
}

func NewFor(p *ControlPool, variantVar Variable, lower, upper Port, initLatency int, body pool.Handle) pool.Handle {
	return p.Add(Node{
		Kind:           ForNode,
		ForVar:         variantVar,
		ForLower:       lower,
		ForUpper:       upper,
		ForInitLatency: initLatency,
		ForBody:        body,
	})
}

func NewSeq(p *ControlPool, children []pool.Handle) pool.Handle {
	return p.Add(Node{Kind: SeqNode, Children: append([]pool.Handle(nil), children...)})
}

func NewPar(p *ControlPool, children []pool.Handle) pool.Handle {
	return p.Add(Node{Kind: ParNode, Children: append([]pool.Handle(nil), children...)})
}

func NewIfElse(p *ControlPool, cond Port, t, f pool.Handle) pool.Handle {
	return p.Add(Node{Kind: IfElseNode, Cond: cond, True: t, False: f})
}

func NewEnable(p *ControlPool, op Op) pool.Handle {
	return p.Add(Node{Kind: EnableNode, Enable: op})
}

// ConstantUpperBound returns the For node's upper bound as a constant, if its
// upper port is a Constant. Several passes (CellAlloc sizing, CollapseControl
// folding an empty constant-bound loop) special-case constant bounds.
func (n Node) ConstantBounds() (lower, upper int64, ok bool) {
	if n.Kind != ForNode {
		return 0, 0, false
	}
	lc, lok := n.ForLower.(Constant)
	uc, uok := n.ForUpper.(Constant)
	if !lok || !uok {
		return 0, 0, false
	}
	return lc.Value, uc.Value, true
}

func (n Node) String() string {
	switch n.Kind {
	case EmptyNode:
		return "empty"
	case DelayNode:
		return fmt.Sprintf("delay(%d)", n.DelayCycles)
	case ForNode:
		return fmt.Sprintf("for %s in %s..<%s", n.ForVar, n.ForLower, n.ForUpper)
	case SeqNode:
		return fmt.Sprintf("seq(%d children)", len(n.Children))
	case ParNode:
		return fmt.Sprintf("par(%d children)", len(n.Children))
	case IfElseNode:
		return fmt.Sprintf("if %s", n.Cond)
	case EnableNode:
		return fmt.Sprintf("enable(%s)", n.Enable)
	default:
		return "?"
	}
}
