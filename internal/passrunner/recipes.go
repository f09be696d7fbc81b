package passrunner

import (
	"pulsar/internal/diag"
	"pulsar/internal/ir"
	"pulsar/internal/passes"
)

// Core returns well-formed, canonicalize.
func Core(cp *ir.ControlPool, m *diag.Manager) *PassRunner {
	return New().
		Add(passes.NewWellFormed(m), 0).
		Add(passes.NewCanonicalize(cp), 0)
}

// Compile returns core + converge(10){copy-prop, calculate-timing} +
// collapse-control + cell-alloc + calculate-timing. DeadCode is deliberately
// not part of this recipe: callers that want dead definitions stripped (the
// address generator does) run it themselves with the options they need.
func Compile(cp *ir.ControlPool, cells *ir.CellPool, comp *ir.Component, m *diag.Manager) *PassRunner {
	r := Core(cp, m)
	r.BeginConverge(10).
		Add(passes.NewCopyProp(cp), 0).
		Add(passes.NewCalculateTiming(cp), 0).
		EndConverge()
	r.Add(passes.NewCollapseControl(cp), 0).
		Add(passes.NewCellAlloc(cells), 0).
		Add(passes.NewCalculateTiming(cp), 0)
	return r
}

// Lower returns core + rewrite-accesses + converge(10){copy-prop
// (preserve-timing)} + collapse-control (preserve-timing) — the emit-path
// variant, which must not disturb the timing CalculateTiming already wrote.
func Lower(cp *ir.ControlPool, m *diag.Manager) *PassRunner {
	r := Core(cp, m)
	r.Add(passes.NewRewriteAccesses(cp), 0)
	r.BeginConverge(10).
		Add(passes.NewCopyProp(cp), passes.PreserveTiming).
		EndConverge()
	r.Add(passes.NewCollapseControl(cp), passes.PreserveTiming)
	return r
}
