// Package backend composes transforms and a target into an emitter: zero or
// more Component→Component Transforms applied left-to-right, then the Lower
// pass recipe, then a single Target writing the result to an output sink.
package backend

import (
	"io"

	pkgerrors "github.com/pkg/errors"

	"pulsar/internal/diag"
	"pulsar/internal/ir"
	"pulsar/internal/passrunner"
	"pulsar/internal/target"
)

// Transform derives a new Component from an existing one (the address
// generator is the in-tree example). A Transform may allocate freely into
// the pools; its output replaces the working component.
type Transform func(comp *ir.Component, pools ir.Pools, m *diag.Manager) *ir.Component

// Builder accumulates transforms until a Target seals it into an Emitter.
type Builder struct {
	transforms []Transform
}

// New returns an empty Builder.
func New() *Builder { return &Builder{} }

// Through appends t to the transform chain.
func (b *Builder) Through(t Transform) *Builder {
	b.transforms = append(b.transforms, t)
	return b
}

// To seals the builder with its target, yielding an Emitter.
func (b *Builder) To(t target.Target) *Emitter {
	return &Emitter{transforms: b.transforms, target: t}
}

// Emitter drives the emit path: transforms left-to-right, then the Lower
// pass recipe (preserving timing), then the target.
type Emitter struct {
	transforms []Transform
	target     target.Target
}

// Emit applies the transform chain to comp, lowers the result, and hands it
// to the target. comp itself is never replaced in the caller; transforms
// produce new components and the last one is what gets emitted.
func (e *Emitter) Emit(comp *ir.Component, pools ir.Pools, m *diag.Manager, out io.Writer) error {
	working := comp
	for _, t := range e.transforms {
		working = t(working, pools, m)
	}

	passrunner.Lower(pools.Control, m).Run(pools.Control, working)
	if m.HasErrors() {
		return pkgerrors.Errorf("lowering %s for emission recorded errors", working.Label.Name)
	}

	return e.target.Emit(working, pools, out)
}
