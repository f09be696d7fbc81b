package passes

import (
	"pulsar/internal/ir"
	"pulsar/internal/pool"
	"pulsar/internal/visitor"
)

// RewriteAccesses replaces every Access port in an Enable's op with a
// LoweredAccess of the same root variable. After this pass, no
// Access or PartialAccess remains anywhere in the subtree it ran over — the
// index ports an Access carried are dropped here because the
// address-generator transform is responsible for turning them into
// separate address-computing Enables before this pass ever runs on its
// output; running RewriteAccesses again afterward is a no-op.
type RewriteAccesses struct {
	visitor.BaseVisitor
	cp *ir.ControlPool
}

func NewRewriteAccesses(cp *ir.ControlPool) *RewriteAccesses { return &RewriteAccesses{cp: cp} }

func (r *RewriteAccesses) Name() string  { return "rewrite-accesses" }
func (r *RewriteAccesses) Setup(Options) {}

func (r *RewriteAccesses) StartEnable(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	changed := false
	newSrcs := make([]ir.Port, len(n.Enable.Sources()))
	for i, s := range n.Enable.Sources() {
		ns, ch := rewritePort(s)
		newSrcs[i] = ns
		changed = changed || ch
	}
	newKill, ch := rewritePort(n.Enable.Kill())
	changed = changed || ch
	if !changed {
		return visitor.None()
	}
	n.Enable = n.Enable.WithPorts(newKill, newSrcs)
	r.cp.Set(h, n)
	return visitor.ModifiedInternally()
}

func rewritePort(p ir.Port) (ir.Port, bool) {
	if acc, ok := p.(ir.Access); ok {
		return ir.LoweredAccess{Array: acc.Array}, true
	}
	return p, false
}
