package passes

import (
	"pulsar/internal/ir"
	"pulsar/internal/pool"
	"pulsar/internal/visitor"
)

// CopyProp substitutes known-copy variables into source operands within a
// single Seq or Par. It never crosses a Seq/Par boundary: each call to
// foldBlock starts a fresh copy map.
type CopyProp struct {
	visitor.BaseVisitor
	cp *ir.ControlPool
}

func NewCopyProp(cp *ir.ControlPool) *CopyProp { return &CopyProp{cp: cp} }

func (c *CopyProp) Name() string  { return "copy-prop" }
func (c *CopyProp) Setup(Options) {}

func (c *CopyProp) StartSeq(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	return c.foldBlock(n.Children)
}
func (c *CopyProp) StartPar(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	return c.foldBlock(n.Children)
}

func (c *CopyProp) foldBlock(children []pool.Handle) visitor.Action {
	copies := make(map[uint64]ir.Port)
	modified := false

	for _, ch := range children {
		node := c.cp.Get(ch)
		if node.Kind != ir.EnableNode {
			continue
		}
		op := node.Enable

		newSrcs := make([]ir.Port, len(op.Sources()))
		changed := false
		for i, s := range op.Sources() {
			if vp, ok := s.(ir.VariablePort); ok {
				if repl, known := copies[vp.Var.ID()]; known {
					newSrcs[i] = repl
					changed = true
					continue
				}
			}
			newSrcs[i] = s
		}
		if changed {
			node.Enable = op.WithPorts(op.Kill(), newSrcs)
			c.cp.Set(ch, node)
			modified = true
			op = node.Enable
		}

		if assign, ok := op.(ir.Assign); ok {
			if dest, ok := assign.Dest.(ir.VariablePort); ok {
				copies[dest.Var.ID()] = assign.Src
			}
		}
		if killVar, ok := ir.KillVar(op); ok {
			if _, isAssignVar := op.(ir.Assign); !isAssignVar {
				delete(copies, killVar.ID())
			}
		}
	}

	if modified {
		return visitor.ModifiedInternally()
	}
	return visitor.None()
}
