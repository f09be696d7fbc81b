package visitor

import (
	"pulsar/internal/ir"
	"pulsar/internal/pool"
)

// Visitor is implemented by every pass: one Start/Finish pair per Control
// variant. h is the handle of the node currently being visited;
// view is the component's mutable cell map / I/O lists, threaded separately
// from the control subtree so a hook may mutate cells without touching
// Control handles and vice versa.
//
// Most passes only care about one or two variants; embed BaseVisitor to get
// None-returning defaults for the rest.
type Visitor interface {
	StartEmpty(h pool.Handle, view *ir.View) Action
	FinishEmpty(h pool.Handle, view *ir.View) Action

	StartDelay(h pool.Handle, n ir.Node, view *ir.View) Action
	FinishDelay(h pool.Handle, n ir.Node, view *ir.View) Action

	StartFor(h pool.Handle, n ir.Node, view *ir.View) Action
	FinishFor(h pool.Handle, n ir.Node, view *ir.View) Action

	StartSeq(h pool.Handle, n ir.Node, view *ir.View) Action
	FinishSeq(h pool.Handle, n ir.Node, view *ir.View) Action

	StartPar(h pool.Handle, n ir.Node, view *ir.View) Action
	FinishPar(h pool.Handle, n ir.Node, view *ir.View) Action

	StartIfElse(h pool.Handle, n ir.Node, view *ir.View) Action
	FinishIfElse(h pool.Handle, n ir.Node, view *ir.View) Action

	StartEnable(h pool.Handle, n ir.Node, view *ir.View) Action
	FinishEnable(h pool.Handle, n ir.Node, view *ir.View) Action
}

// BaseVisitor implements Visitor with every hook returning None. Passes
// embed it and override only the hooks they need.
type BaseVisitor struct{}

func (BaseVisitor) StartEmpty(pool.Handle, *ir.View) Action  { return None() }
func (BaseVisitor) FinishEmpty(pool.Handle, *ir.View) Action { return None() }

func (BaseVisitor) StartDelay(pool.Handle, ir.Node, *ir.View) Action  { return None() }
func (BaseVisitor) FinishDelay(pool.Handle, ir.Node, *ir.View) Action { return None() }

func (BaseVisitor) StartFor(pool.Handle, ir.Node, *ir.View) Action  { return None() }
func (BaseVisitor) FinishFor(pool.Handle, ir.Node, *ir.View) Action { return None() }

func (BaseVisitor) StartSeq(pool.Handle, ir.Node, *ir.View) Action  { return None() }
func (BaseVisitor) FinishSeq(pool.Handle, ir.Node, *ir.View) Action { return None() }

func (BaseVisitor) StartPar(pool.Handle, ir.Node, *ir.View) Action  { return None() }
func (BaseVisitor) FinishPar(pool.Handle, ir.Node, *ir.View) Action { return None() }

func (BaseVisitor) StartIfElse(pool.Handle, ir.Node, *ir.View) Action  { return None() }
func (BaseVisitor) FinishIfElse(pool.Handle, ir.Node, *ir.View) Action { return None() }

func (BaseVisitor) StartEnable(pool.Handle, ir.Node, *ir.View) Action  { return None() }
func (BaseVisitor) FinishEnable(pool.Handle, ir.Node, *ir.View) Action { return None() }
