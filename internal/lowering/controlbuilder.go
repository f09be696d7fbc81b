package lowering

import (
	"pulsar/internal/ir"
	"pulsar/internal/pool"
)

// ControlBuilder is an append-only builder modeling an
// implicit Seq of Pars. It holds a non-empty vector of Par-children lists,
// conceptually concatenated with Seq; push appends to the last one, split
// opens a new one (a `---` divider), and Finalize collapses the trivial
// cases so a function whose body never dividers doesn't pay for a
// single-child Seq wrapping a single-child Par.
type ControlBuilder struct {
	cp   *ir.ControlPool
	pars [][]pool.Handle
}

// NewControlBuilder returns a builder with one empty Par segment.
func NewControlBuilder(cp *ir.ControlPool) *ControlBuilder {
	return &ControlBuilder{cp: cp, pars: [][]pool.Handle{nil}}
}

// Push appends ctrl to the last Par segment.
func (b *ControlBuilder) Push(ctrl pool.Handle) {
	last := len(b.pars) - 1
	b.pars[last] = append(b.pars[last], ctrl)
}

// Split opens a new, empty Par segment — the effect of a `---` divider.
func (b *ControlBuilder) Split() {
	b.pars = append(b.pars, nil)
}

// Finalize collapses the builder to a single Control handle: one Par with
// one child returns that child; one Par with many
// children returns the Par; otherwise the Pars are wrapped in a Seq.
func (b *ControlBuilder) Finalize() pool.Handle {
	if len(b.pars) == 1 {
		return b.finalizePar(b.pars[0])
	}
	seqChildren := make([]pool.Handle, len(b.pars))
	for i, children := range b.pars {
		seqChildren[i] = b.finalizePar(children)
	}
	return ir.NewSeq(b.cp, seqChildren)
}

func (b *ControlBuilder) finalizePar(children []pool.Handle) pool.Handle {
	switch len(children) {
	case 0:
		return ir.NewEmpty(b.cp)
	case 1:
		return children[0]
	default:
		return ir.NewPar(b.cp, children)
	}
}
