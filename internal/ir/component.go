package ir

import "pulsar/internal/pool"

// CellPool is the arena Cells live in. It carries no metadata of its own
// (cells are immutable once allocated by CellAlloc).
type CellPool = pool.Pool[Cell, struct{}]

// NewCellPool returns an empty CellPool.
func NewCellPool() *CellPool { return pool.New[Cell, struct{}](0) }

// IOPair binds a parameter variable to the cell that stores it.
type IOPair struct {
	Var  Variable
	Cell pool.Handle
}

// Component is a compilation unit: a Label, ordered input/output
// variable-cell pairs, a cell-allocation map, and a root Control handle.
type Component struct {
	Label   Label
	Inputs  []IOPair
	Outputs []IOPair
	Cells   map[Variable]pool.Handle
	Root    pool.Handle
}

// NewComponent returns a Component with an empty cell map; callers populate
// Inputs/Outputs/Cells before or during lowering.
func NewComponent(label Label, root pool.Handle) *Component {
	return &Component{
		Label: label,
		Cells: make(map[Variable]pool.Handle),
		Root:  root,
	}
}

// View is the mutable, non-control part of a Component: the cell map and
// the I/O lists, split from the root control handle so a visitor may
// rewrite the control subtree and the cell map independently without
// aliasing the same field. It is a struct of pointers/maps distinct from
// Root, handed to pass code alongside a *pool.Handle for the root so the
// two mutations never touch the same memory.
type View struct {
	Cells   map[Variable]pool.Handle
	Inputs  []IOPair
	Outputs []IOPair
}

// Split returns a pointer to the Component's Root handle (so a top-level
// Replace action can repoint it) together with a View over everything else.
func (c *Component) Split() (root *pool.Handle, view *View) {
	return &c.Root, &View{Cells: c.Cells, Inputs: c.Inputs, Outputs: c.Outputs}
}

// OutputVars returns every output variable, in declaration order — the seed
// set for SideEffectAnalysis.
func (c *Component) OutputVars() []Variable {
	out := make([]Variable, len(c.Outputs))
	for i, o := range c.Outputs {
		out[i] = o.Var
	}
	return out
}
