package passes

import (
	"pulsar/internal/ir"
	"pulsar/internal/pool"
	"pulsar/internal/visitor"
)

// Canonicalize folds chains of PartialAccess into a single Access and turns
// any remaining lone PartialAccess into a singleton-index Access.
// It holds its own ControlPool reference (rather than taking one
// per call) so StartSeq/StartPar can read and rewrite sibling Enable
// children directly — the visitor hooks only carry a *ir.View, but folding
// "t = array[i]; r = t[j]" requires looking at two adjacent children's ops
// together, which means going back through the pool by handle.
type Canonicalize struct {
	visitor.BaseVisitor
	cp *ir.ControlPool
}

// NewCanonicalize returns a Canonicalize pass operating over cp.
func NewCanonicalize(cp *ir.ControlPool) *Canonicalize { return &Canonicalize{cp: cp} }

func (c *Canonicalize) Name() string  { return "canonicalize" }
func (c *Canonicalize) Setup(Options) {}

func (c *Canonicalize) StartSeq(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	return c.foldBlock(n.Children)
}
func (c *Canonicalize) StartPar(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	return c.foldBlock(n.Children)
}

// foldBlock performs one forward scan over a single Seq/Par's children,
// folding each PartialAccess-producing Enable into the next Enable that
// consumes its destination variable as the array half of a PartialAccess —
// but only when no other child in the block reads that variable, satisfying
// the fold is only legal when t has a single consumer. Any PartialAccess left over after the
// scan (one that never matched a fold) becomes a singleton-index Access.
func (c *Canonicalize) foldBlock(children []pool.Handle) visitor.Action {
	enables := make([]pool.Handle, 0, len(children))
	for _, ch := range children {
		if c.cp.Get(ch).Kind == ir.EnableNode {
			enables = append(enables, ch)
		}
	}
	uses := make(map[uint64]int)
	for _, eh := range enables {
		op := c.cp.Get(eh).Enable
		for _, v := range ir.GenUsed(op) {
			uses[v.ID()]++
		}
	}

	modified := false
	for i := 0; i < len(enables)-1; i++ {
		defHandle := enables[i]
		defOp := c.cp.Get(defHandle).Enable
		assign, ok := defOp.(ir.Assign)
		if !ok {
			continue
		}
		defVar, ok := ir.RootVar(assign.Dest)
		if !ok || uses[defVar.ID()] != 1 {
			continue
		}
		chainedArray := chainArray(assign.Src)
		if chainedArray == nil {
			continue
		}

		consumerHandle := enables[i+1]
		consumerNode := c.cp.Get(consumerHandle)
		newOp, changed := inlineChain(consumerNode.Enable, defVar, chainedArray)
		if changed {
			consumerNode.Enable = newOp
			c.cp.Set(consumerHandle, consumerNode)
			modified = true
		}
	}

	for _, eh := range enables {
		node := c.cp.Get(eh)
		newOp, changed := canonicalizeOpPorts(node.Enable)
		if changed {
			node.Enable = newOp
			c.cp.Set(eh, node)
			modified = true
		}
	}

	if modified {
		return visitor.ModifiedInternally()
	}
	return visitor.None()
}

// chainArray returns the Access (or PartialAccess) p denotes when it is
// itself an array reference suitable as the left half of a further index
// (i.e. p is PartialAccess or Access), or nil otherwise.
func chainArray(p ir.Port) ir.Port {
	switch p.(type) {
	case ir.PartialAccess, ir.Access:
		return p
	default:
		return nil
	}
}

// inlineChain rewrites every PartialAccess{Array: VariablePort{defVar}, ...}
// appearing in op's sources/kill, substituting chained in place of the
// VariablePort and extending indices accordingly.
func inlineChain(op ir.Op, defVar ir.Variable, chained ir.Port) (ir.Op, bool) {
	changed := false
	newSrcs := make([]ir.Port, len(op.Sources()))
	for i, s := range op.Sources() {
		ns, ch := inlinePort(s, defVar, chained)
		newSrcs[i] = ns
		changed = changed || ch
	}
	newKill, ch := inlinePort(op.Kill(), defVar, chained)
	changed = changed || ch
	if !changed {
		return op, false
	}
	return op.WithPorts(newKill, newSrcs), true
}

func inlinePort(p ir.Port, defVar ir.Variable, chained ir.Port) (ir.Port, bool) {
	pa, ok := p.(ir.PartialAccess)
	if !ok {
		return p, false
	}
	if vp, ok := pa.Array.(ir.VariablePort); ok && vp.Var.ID() == defVar.ID() {
		return foldTwo(chained, pa.Index), true
	}
	innerArray, changed := inlinePort(pa.Array, defVar, chained)
	if changed {
		return ir.PartialAccess{Array: innerArray, Index: pa.Index}, true
	}
	return p, false
}

// foldTwo composes (base)[index] into a single Access, per the two fold
// rules Canonicalize implements.
func foldTwo(base ir.Port, index ir.Port) ir.Port {
	switch b := base.(type) {
	case ir.Access:
		return ir.Access{Array: b.Array, Indices: append(append([]ir.Port(nil), b.Indices...), index)}
	case ir.PartialAccess:
		if root, ok := ir.RootVar(b.Array); ok {
			if _, isVar := b.Array.(ir.VariablePort); isVar {
				return ir.Access{Array: root, Indices: []ir.Port{b.Index, index}}
			}
		}
		return ir.PartialAccess{Array: base, Index: index}
	default:
		return ir.PartialAccess{Array: base, Index: index}
	}
}

// canonicalizeOpPorts turns every remaining lone PartialAccess reachable
// from op's sources/kill into a singleton-index Access.
func canonicalizeOpPorts(op ir.Op) (ir.Op, bool) {
	changed := false
	newSrcs := make([]ir.Port, len(op.Sources()))
	for i, s := range op.Sources() {
		ns, ch := canonicalizePort(s)
		newSrcs[i] = ns
		changed = changed || ch
	}
	newKill, ch := canonicalizePort(op.Kill())
	changed = changed || ch
	if !changed {
		return op, false
	}
	return op.WithPorts(newKill, newSrcs), true
}

func canonicalizePort(p ir.Port) (ir.Port, bool) {
	switch t := p.(type) {
	case ir.PartialAccess:
		array, _ := canonicalizePort(t.Array)
		if root, ok := ir.RootVar(array); ok {
			if acc, isAcc := array.(ir.Access); isAcc {
				return ir.Access{Array: acc.Array, Indices: append(append([]ir.Port(nil), acc.Indices...), t.Index)}, true
			}
			return ir.Access{Array: root, Indices: []ir.Port{t.Index}}, true
		}
		return ir.PartialAccess{Array: array, Index: t.Index}, true
	case ir.Access:
		changed := false
		newIdx := make([]ir.Port, len(t.Indices))
		for i, idx := range t.Indices {
			ni, ch := canonicalizePort(idx)
			newIdx[i] = ni
			changed = changed || ch
		}
		if changed {
			return ir.Access{Array: t.Array, Indices: newIdx}, true
		}
		return t, false
	default:
		return p, false
	}
}
