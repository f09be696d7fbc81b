package visitor

import (
	"pulsar/internal/ir"
	"pulsar/internal/pool"
)

// Traverse walks the subtree rooted at h in depth-first order, invoking v's
// Start hook before descending into children and its Finish hook after.
// Ordering guarantees:
//   - start_<variant> fires before any child's walk begins; a Remove/Replace
//     from it suppresses descent into the original subtree entirely.
//   - finish_<variant> fires after every child's walk has completed; its
//     action applies after the subtree has already been traversed (and
//     possibly rewritten).
//
// It returns the handle that should replace h in the parent (h itself,
// unless a Remove/Replace action fired) and whether anything in the subtree
// was modified.
func Traverse(cp *ir.ControlPool, h pool.Handle, view *ir.View, v Visitor) (pool.Handle, bool) {
	node := cp.Get(h)

	startAction := dispatchStart(v, h, node, view)
	switch startAction.Kind {
	case RemoveKind:
		return ir.NewEmpty(cp), true
	case ReplaceKind:
		return startAction.NewNode, true
	}
	dirty := startAction.Kind == ModifiedKind

	switch node.Kind {
	case ir.SeqNode, ir.ParNode:
		changed := false
		newChildren := make([]pool.Handle, len(node.Children))
		for i, ch := range node.Children {
			nh, d := Traverse(cp, ch, view, v)
			newChildren[i] = nh
			if d {
				changed = true
			}
		}
		if changed {
			node.Children = newChildren
			cp.Set(h, node)
			dirty = true
		}
	case ir.ForNode:
		nb, d := Traverse(cp, node.ForBody, view, v)
		if d {
			node.ForBody = nb
			cp.Set(h, node)
			dirty = true
		}
	case ir.IfElseNode:
		nt, dt := Traverse(cp, node.True, view, v)
		nf, df := Traverse(cp, node.False, view, v)
		if dt || df {
			node.True, node.False = nt, nf
			cp.Set(h, node)
			dirty = true
		}
	case ir.EnableNode, ir.EmptyNode, ir.DelayNode:
		// Leaves: nothing to recurse into.
	}

	// Re-read in case a child recursion mutated this node's stored copy.
	node = cp.Get(h)
	finishAction := dispatchFinish(v, h, node, view)
	switch finishAction.Kind {
	case RemoveKind:
		return ir.NewEmpty(cp), true
	case ReplaceKind:
		return finishAction.NewNode, true
	case ModifiedKind:
		dirty = true
	}

	return h, dirty
}

// TraverseComponent runs Traverse over comp's root and writes back the
// (possibly rewritten) root handle. It returns whether anything in the
// component was modified — the boolean the pass runner's convergence loop
// watches.
func TraverseComponent(cp *ir.ControlPool, comp *ir.Component, v Visitor) bool {
	root, view := comp.Split()
	newRoot, dirty := Traverse(cp, *root, view, v)
	*root = newRoot
	return dirty
}

func dispatchStart(v Visitor, h pool.Handle, n ir.Node, view *ir.View) Action {
	switch n.Kind {
	case ir.EmptyNode:
		return v.StartEmpty(h, view)
	case ir.DelayNode:
		return v.StartDelay(h, n, view)
	case ir.ForNode:
		return v.StartFor(h, n, view)
	case ir.SeqNode:
		return v.StartSeq(h, n, view)
	case ir.ParNode:
		return v.StartPar(h, n, view)
	case ir.IfElseNode:
		return v.StartIfElse(h, n, view)
	case ir.EnableNode:
		return v.StartEnable(h, n, view)
	default:
		return None()
	}
}

func dispatchFinish(v Visitor, h pool.Handle, n ir.Node, view *ir.View) Action {
	switch n.Kind {
	case ir.EmptyNode:
		return v.FinishEmpty(h, view)
	case ir.DelayNode:
		return v.FinishDelay(h, n, view)
	case ir.ForNode:
		return v.FinishFor(h, n, view)
	case ir.SeqNode:
		return v.FinishSeq(h, n, view)
	case ir.ParNode:
		return v.FinishPar(h, n, view)
	case ir.IfElseNode:
		return v.FinishIfElse(h, n, view)
	case ir.EnableNode:
		return v.FinishEnable(h, n, view)
	default:
		return None()
	}
}
