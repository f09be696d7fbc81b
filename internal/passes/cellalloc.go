package passes

import (
	"pulsar/internal/ir"
	"pulsar/internal/pool"
	"pulsar/internal/visitor"
)

// CellAlloc allocates register cells for loop variants and for any
// Enable-killed variable that has no cell yet. It never
// revisits a variable already present in the view's cell map, so re-running
// it is idempotent.
type CellAlloc struct {
	visitor.BaseVisitor
	cellPool *ir.CellPool
}

// NewCellAlloc returns a CellAlloc pass allocating cells out of cellPool —
// normally the same CellPool backing the Component being transformed.
func NewCellAlloc(cellPool *ir.CellPool) *CellAlloc { return &CellAlloc{cellPool: cellPool} }

func (c *CellAlloc) Name() string  { return "cell-alloc" }
func (c *CellAlloc) Setup(Options) {}

func (c *CellAlloc) StartFor(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	if _, ok := view.Cells[n.ForVar]; ok {
		return visitor.None()
	}
	width := 64
	if _, upper, ok := n.ConstantBounds(); ok {
		width = ir.FlattenedAddrWidth(int(upper))
		if width == 0 {
			width = 1
		}
	}
	view.Cells[n.ForVar] = c.cellPool.Add(ir.Register{Width: width})
	return visitor.ModifiedInternally()
}

func (c *CellAlloc) StartEnable(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	kv, ok := ir.KillVar(n.Enable)
	if !ok {
		return visitor.None()
	}
	if _, has := view.Cells[kv]; has {
		return visitor.None()
	}
	view.Cells[kv] = c.cellPool.Add(ir.Register{Width: 64})
	return visitor.ModifiedInternally()
}
