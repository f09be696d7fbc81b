// Package passrunner implements the PassRunner: a linear list
// of pass operations — Boxed(pass, options), BeginConverge(iter-limit),
// EndConverge — plus the three canonical recipes built from it.
package passrunner

import (
	"pulsar/internal/ir"
	"pulsar/internal/passes"
)

// opKind tags which of the three PassRunner operations a step represents.
type opKind int

const (
	boxedOp opKind = iota
	beginConvergeOp
	endConvergeOp
)

type step struct {
	kind      opKind
	pass      passes.Pass
	opts      passes.Options
	iterLimit int
}

// PassRunner is an append-only linear schedule of pass operations.
type PassRunner struct {
	steps []step
}

// New returns an empty PassRunner.
func New() *PassRunner { return &PassRunner{} }

// Add appends Boxed(pass, opts) to the schedule.
func (r *PassRunner) Add(p passes.Pass, opts passes.Options) *PassRunner {
	r.steps = append(r.steps, step{kind: boxedOp, pass: p, opts: opts})
	return r
}

// BeginConverge opens a convergence region: every Boxed step added before
// the matching EndConverge is rerun as a group until a full iteration
// completes with no pass reporting modification, or iterLimit is reached.
func (r *PassRunner) BeginConverge(iterLimit int) *PassRunner {
	r.steps = append(r.steps, step{kind: beginConvergeOp, iterLimit: iterLimit})
	return r
}

// EndConverge closes the most recently opened convergence region.
func (r *PassRunner) EndConverge() *PassRunner {
	r.steps = append(r.steps, step{kind: endConvergeOp})
	return r
}

// Run executes the schedule against comp, returning whether anything in the
// component was modified by any pass across the whole run.
func (r *PassRunner) Run(cp *ir.ControlPool, comp *ir.Component) bool {
	anyModified := false
	i := 0
	for i < len(r.steps) {
		s := r.steps[i]
		switch s.kind {
		case boxedOp:
			if passes.Run(cp, comp, s.pass, s.opts) {
				anyModified = true
			}
			i++
		case beginConvergeOp:
			end := matchingEnd(r.steps, i)
			group := r.steps[i+1 : end]
			if runConverge(cp, comp, group, s.iterLimit) {
				anyModified = true
			}
			i = end + 1
		case endConvergeOp:
			// Reached only if EndConverge appears without a BeginConverge;
			// treat as a no-op rather than panicking on a malformed schedule.
			i++
		}
	}
	return anyModified
}

func matchingEnd(steps []step, beginIdx int) int {
	depth := 0
	for j := beginIdx; j < len(steps); j++ {
		switch steps[j].kind {
		case beginConvergeOp:
			depth++
		case endConvergeOp:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return len(steps)
}

func runConverge(cp *ir.ControlPool, comp *ir.Component, group []step, iterLimit int) bool {
	anyModified := false
	for iter := 0; iter < iterLimit; iter++ {
		roundModified := false
		for _, s := range group {
			if s.kind != boxedOp {
				continue
			}
			if passes.Run(cp, comp, s.pass, s.opts) {
				roundModified = true
			}
		}
		if roundModified {
			anyModified = true
		} else {
			break
		}
	}
	return anyModified
}
