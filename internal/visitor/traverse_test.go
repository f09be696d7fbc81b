package visitor

import (
	"testing"

	"pulsar/internal/ir"
	"pulsar/internal/pool"
)

type orderRecorder struct {
	BaseVisitor
	events []string
}

func (o *orderRecorder) StartSeq(h pool.Handle, n ir.Node, view *ir.View) Action {
	o.events = append(o.events, "start-seq")
	return None()
}
func (o *orderRecorder) FinishSeq(h pool.Handle, n ir.Node, view *ir.View) Action {
	o.events = append(o.events, "finish-seq")
	return None()
}
func (o *orderRecorder) StartEnable(h pool.Handle, n ir.Node, view *ir.View) Action {
	o.events = append(o.events, "start-enable")
	return None()
}
func (o *orderRecorder) FinishEnable(h pool.Handle, n ir.Node, view *ir.View) Action {
	o.events = append(o.events, "finish-enable")
	return None()
}

func TestTraverseOrdering(t *testing.T) {
	cp := ir.NewControlPool()
	g := ir.NewVarGen()
	r, a, b := g.Fresh("r"), g.Fresh("a"), g.Fresh("b")
	e1 := ir.NewEnable(cp, ir.Add{Dest: ir.VariablePort{Var: r}, Src1: ir.VariablePort{Var: a}, Src2: ir.VariablePort{Var: b}})
	e2 := ir.NewEnable(cp, ir.Assign{Dest: ir.VariablePort{Var: a}, Src: ir.VariablePort{Var: b}})
	seq := ir.NewSeq(cp, []pool.Handle{e1, e2})

	rec := &orderRecorder{}
	view := &ir.View{Cells: map[ir.Variable]pool.Handle{}}
	_, dirty := Traverse(cp, seq, view, rec)

	if dirty {
		t.Fatalf("no-op visitor should not report dirty")
	}
	want := []string{"start-seq", "start-enable", "finish-enable", "start-enable", "finish-enable", "finish-seq"}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", rec.events, want)
		}
	}
}

type removeSecondEnable struct {
	BaseVisitor
	seen int
}

func (r *removeSecondEnable) StartEnable(h pool.Handle, n ir.Node, view *ir.View) Action {
	r.seen++
	if r.seen == 2 {
		return Remove()
	}
	return None()
}

func TestTraverseRemoveSuppressesDescent(t *testing.T) {
	cp := ir.NewControlPool()
	g := ir.NewVarGen()
	a := g.Fresh("a")
	e1 := ir.NewEnable(cp, ir.Assign{Dest: ir.VariablePort{Var: a}, Src: ir.Constant{Value: 1}})
	e2 := ir.NewEnable(cp, ir.Assign{Dest: ir.VariablePort{Var: a}, Src: ir.Constant{Value: 2}})
	seq := ir.NewSeq(cp, []pool.Handle{e1, e2})

	view := &ir.View{Cells: map[ir.Variable]pool.Handle{}}
	newRoot, dirty := Traverse(cp, seq, view, &removeSecondEnable{})
	if !dirty {
		t.Fatalf("expected dirty after a Remove action")
	}
	node := cp.Get(newRoot)
	if node.Kind != ir.SeqNode || len(node.Children) != 2 {
		t.Fatalf("expected seq with 2 children, got %v", node)
	}
	second := cp.Get(node.Children[1])
	if second.Kind != ir.EmptyNode {
		t.Fatalf("removed child should become Empty, got %v", second.Kind)
	}
}

type replaceRoot struct {
	BaseVisitor
	cp    *ir.ControlPool
	empty pool.Handle
}

func (r *replaceRoot) StartSeq(h pool.Handle, n ir.Node, view *ir.View) Action {
	return Replace(r.empty)
}

func TestTraverseReplaceSuppressesDescent(t *testing.T) {
	cp := ir.NewControlPool()
	g := ir.NewVarGen()
	a := g.Fresh("a")
	e1 := ir.NewEnable(cp, ir.Assign{Dest: ir.VariablePort{Var: a}, Src: ir.Constant{Value: 1}})
	seq := ir.NewSeq(cp, []pool.Handle{e1})
	empty := ir.NewEmpty(cp)

	view := &ir.View{Cells: map[ir.Variable]pool.Handle{}}
	newRoot, dirty := Traverse(cp, seq, view, &replaceRoot{cp: cp, empty: empty})
	if !dirty || newRoot != empty {
		t.Fatalf("Replace(empty) should make traversal return (empty, true); got (%v, %v)", newRoot, dirty)
	}
}
