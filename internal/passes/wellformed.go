package passes

import (
	"fmt"

	"pulsar/internal/diag"
	"pulsar/internal/ir"
	"pulsar/internal/pool"
	"pulsar/internal/visitor"
)

// WellFormed walks every Enable and aborts compilation (via its Manager) if
// any primitive op's kill is a Constant, or an Access/PartialAccess index
// port is missing, or a Seq/Par holds an invalid child handle.
// It never rewrites anything; every hook other than StartEnable is the
// BaseVisitor default.
type WellFormed struct {
	visitor.BaseVisitor
	Manager *diag.Manager

	failed bool
}

// NewWellFormed returns a WellFormed pass reporting aborts through m.
func NewWellFormed(m *diag.Manager) *WellFormed {
	return &WellFormed{Manager: m}
}

func (w *WellFormed) Name() string  { return "well-formed" }
func (w *WellFormed) Setup(Options) { w.failed = false }

// Failed reports whether the most recent traversal found a violation.
func (w *WellFormed) Failed() bool { return w.failed }

func (w *WellFormed) StartEnable(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	op := n.Enable
	if _, isConst := op.Kill().(ir.Constant); isConst {
		w.failed = true
		w.Manager.Abort(w.Name(), h.String(), fmt.Errorf("primitive op %q has a constant kill", op))
		return visitor.None()
	}
	for _, src := range op.Sources() {
		if err := checkAccessIndices(src); err != nil {
			w.failed = true
			w.Manager.Abort(w.Name(), h.String(), err)
		}
	}
	if err := checkAccessIndices(op.Kill()); err != nil {
		w.failed = true
		w.Manager.Abort(w.Name(), h.String(), err)
	}
	return visitor.None()
}

func checkAccessIndices(p ir.Port) error {
	switch t := p.(type) {
	case ir.Access:
		if len(t.Indices) == 0 {
			return fmt.Errorf("Access(%s) has no index ports", t.Array)
		}
		for _, idx := range t.Indices {
			if idx == nil {
				return fmt.Errorf("Access(%s) has a nil index port", t.Array)
			}
			if err := checkAccessIndices(idx); err != nil {
				return err
			}
		}
	case ir.PartialAccess:
		if t.Index == nil {
			return fmt.Errorf("PartialAccess has a nil index port")
		}
		return checkAccessIndices(t.Array)
	}
	return nil
}

func (w *WellFormed) StartSeq(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	return checkChildren(w, h, n)
}
func (w *WellFormed) StartPar(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	return checkChildren(w, h, n)
}

func checkChildren(w *WellFormed, h pool.Handle, n ir.Node) visitor.Action {
	for _, ch := range n.Children {
		if !ch.Valid() {
			w.failed = true
			w.Manager.Abort(w.Name(), h.String(), fmt.Errorf("%s has an invalid child handle", n.Kind))
		}
	}
	return visitor.None()
}
