package passes

import (
	"pulsar/internal/ir"
	"pulsar/internal/pool"
	"pulsar/internal/visitor"
)

// CollapseControl tidies structural debris DeadCode and earlier passes leave
// behind: in a Seq/Par it drops Empty and Delay(0) children and
// merges adjacent Delay children into one, collapsing to Remove/Replace when
// the result is empty or a singleton; a For with a constant, empty-iteration
// range and an empty body collapses too.
type CollapseControl struct {
	visitor.BaseVisitor
	cp   *ir.ControlPool
	opts Options
}

func NewCollapseControl(cp *ir.ControlPool) *CollapseControl { return &CollapseControl{cp: cp} }

func (c *CollapseControl) Name() string        { return "collapse-control" }
func (c *CollapseControl) Setup(opts Options) { c.opts = opts }

func (c *CollapseControl) finishBlock(h pool.Handle, n ir.Node) visitor.Action {
	var out []pool.Handle
	for _, ch := range n.Children {
		node := c.cp.Get(ch)
		switch {
		case node.Kind == ir.EmptyNode:
			continue
		case node.Kind == ir.DelayNode && node.DelayCycles == 0:
			continue
		case node.Kind == ir.DelayNode && len(out) > 0:
			last := c.cp.Get(out[len(out)-1])
			if last.Kind == ir.DelayNode {
				last.DelayCycles += node.DelayCycles
				c.cp.Set(out[len(out)-1], last)
				continue
			}
			out = append(out, ch)
		default:
			out = append(out, ch)
		}
	}

	switch len(out) {
	case 0:
		return visitor.Remove()
	case 1:
		return visitor.Replace(out[0])
	default:
		if len(out) != len(n.Children) {
			n.Children = out
			c.cp.Set(h, n)
			return visitor.ModifiedInternally()
		}
		return visitor.None()
	}
}

func (c *CollapseControl) FinishSeq(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	return c.finishBlock(h, n)
}
func (c *CollapseControl) FinishPar(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	return c.finishBlock(h, n)
}

func (c *CollapseControl) FinishFor(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	lower, upper, ok := n.ConstantBounds()
	if !ok || upper > lower {
		return visitor.None()
	}
	body := c.cp.Get(n.ForBody)
	if body.Kind != ir.EmptyNode {
		return visitor.None()
	}
	if c.opts.Has(PreserveTiming) {
		return visitor.Replace(ir.NewDelay(c.cp, n.ForInitLatency))
	}
	return visitor.Remove()
}
