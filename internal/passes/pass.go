// Package passes implements the eight concrete Control-tree passes, each a
// visitor.Visitor wrapped in the Pass contract: a name for logging and a
// setup(options) hook run before each traversal.
package passes

import (
	"pulsar/internal/diag"
	"pulsar/internal/ir"
	"pulsar/internal/visitor"
)

// Options is the bitflag set a PassRunner threads through setup.
// PreserveTiming is the only flag defined in-core: it changes how DeadCode
// and CollapseControl dispose of timed subtrees they would otherwise drop.
type Options uint32

const (
	PreserveTiming Options = 1 << iota
)

func (o Options) Has(flag Options) bool { return o&flag != 0 }

// Pass is a visitor.Visitor plus a name for logging and a Setup hook run
// before each traversal.
type Pass interface {
	visitor.Visitor
	Name() string
	Setup(opts Options)
}

// Run traverses comp's control tree once with p, per visitor.TraverseComponent,
// after calling p.Setup(opts). It returns whether the traversal modified the
// component — the signal a PassRunner's convergence loop watches.
func Run(cp *ir.ControlPool, comp *ir.Component, p Pass, opts Options) bool {
	p.Setup(opts)
	return visitor.TraverseComponent(cp, comp, p)
}

// mgr is the diag.Manager a pass reports aborts through. Passes that can fail
// (WellFormed) take one explicitly rather than relying on package-level
// state, so multiple compilations never share a Manager by accident.
type mgr = *diag.Manager
