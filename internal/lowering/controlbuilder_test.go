package lowering

import (
	"testing"

	"pulsar/internal/ir"
)

func TestControlBuilderSingleChildCollapsesToItself(t *testing.T) {
	cp := ir.NewControlPool()
	b := NewControlBuilder(cp)
	enable := ir.NewEnable(cp, ir.Assign{Dest: ir.VariablePort{}, Src: ir.Constant{Value: 1}})
	b.Push(enable)

	root := b.Finalize()
	if root != enable {
		t.Fatalf("expected a single pushed child to collapse to itself, got a different handle")
	}
}

func TestControlBuilderSinglePinWithManyChildrenIsPar(t *testing.T) {
	cp := ir.NewControlPool()
	b := NewControlBuilder(cp)
	e1 := ir.NewEnable(cp, ir.Assign{Dest: ir.VariablePort{}, Src: ir.Constant{Value: 1}})
	e2 := ir.NewEnable(cp, ir.Assign{Dest: ir.VariablePort{}, Src: ir.Constant{Value: 2}})
	b.Push(e1)
	b.Push(e2)

	root := b.Finalize()
	node := cp.Get(root)
	if node.Kind != ir.ParNode || len(node.Children) != 2 {
		t.Fatalf("expected a 2-child Par, got %+v", node)
	}
}

func TestControlBuilderSplitProducesSeqOfPars(t *testing.T) {
	cp := ir.NewControlPool()
	b := NewControlBuilder(cp)
	e1 := ir.NewEnable(cp, ir.Assign{Dest: ir.VariablePort{}, Src: ir.Constant{Value: 1}})
	e2 := ir.NewEnable(cp, ir.Assign{Dest: ir.VariablePort{}, Src: ir.Constant{Value: 2}})
	b.Push(e1)
	b.Split()
	b.Push(e2)

	root := b.Finalize()
	node := cp.Get(root)
	if node.Kind != ir.SeqNode || len(node.Children) != 2 {
		t.Fatalf("expected a 2-child Seq of Pars, got %+v", node)
	}
	if node.Children[0] != e1 {
		t.Fatalf("expected the first segment to collapse to e1 itself")
	}
	if node.Children[1] != e2 {
		t.Fatalf("expected the second segment to collapse to e2 itself")
	}
}

func TestControlBuilderEmptySegmentFinalizesToEmpty(t *testing.T) {
	cp := ir.NewControlPool()
	b := NewControlBuilder(cp)

	root := b.Finalize()
	node := cp.Get(root)
	if node.Kind != ir.EmptyNode {
		t.Fatalf("expected an untouched builder to finalize to Empty, got %+v", node)
	}
}
