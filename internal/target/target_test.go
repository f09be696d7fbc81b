package target

import (
	"strings"
	"testing"

	"pulsar/internal/ir"
)

// buildAddComponent constructs the scalar-arithmetic component from the
// end-to-end scenarios by hand: r = a + b with three 64-bit registers.
func buildAddComponent(pools ir.Pools) *ir.Component {
	vars := ir.NewVarGen()
	a := vars.Fresh("a")
	b := vars.Fresh("b")
	r := vars.Fresh("r")

	enable := ir.NewEnable(pools.Control, ir.Add{
		Dest: ir.VariablePort{Var: r},
		Src1: ir.VariablePort{Var: a},
		Src2: ir.VariablePort{Var: b},
	})
	pools.Control.WriteMetadata(enable, ir.Combinational())

	comp := ir.NewComponent(ir.Label{Visibility: ir.Public, Name: "f", Mangled: "1f_2I_1I"}, enable)
	for _, v := range []ir.Variable{a, b, r} {
		comp.Cells[v] = pools.Cells.Add(ir.Register{Width: 64})
	}
	comp.Inputs = []ir.IOPair{{Var: a, Cell: comp.Cells[a]}, {Var: b, Cell: comp.Cells[b]}}
	comp.Outputs = []ir.IOPair{{Var: r, Cell: comp.Cells[r]}}
	return comp
}

func TestTextEmit(t *testing.T) {
	pools := ir.NewPools()
	comp := buildAddComponent(pools)

	var sb strings.Builder
	if err := NewText().Emit(comp, pools, &sb); err != nil {
		t.Fatalf("text emit: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"component public f (1f_2I_1I)",
		"a.1: reg(64)",
		"enable r.3 = a.1 + b.2",
		"[comb]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestTextEmitMemoryCell(t *testing.T) {
	pools := ir.NewPools()
	vars := ir.NewVarGen()
	x := vars.Fresh("x")

	root := ir.NewEmpty(pools.Control)
	comp := ir.NewComponent(ir.Label{Name: "g", Mangled: "1g_0_0"}, root)
	comp.Cells[x] = pools.Cells.Add(ir.Memory{Levels: []ir.MemoryLevel{{Length: 3, Banks: 1}}, ElemWidth: 64})

	var sb strings.Builder
	if err := NewText().Emit(comp, pools, &sb); err != nil {
		t.Fatalf("text emit: %v", err)
	}
	if !strings.Contains(sb.String(), "x.1: mem(3, elem=64)") {
		t.Errorf("memory cell not rendered:\n%s", sb.String())
	}
}

func TestLLVMEmitScalar(t *testing.T) {
	pools := ir.NewPools()
	comp := buildAddComponent(pools)

	var sb strings.Builder
	if err := NewLLVM().Emit(comp, pools, &sb); err != nil {
		t.Fatalf("llvm emit: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		`define void @"1f_2I_1I"()`,
		"alloca i64",
		"add i64",
		"ret void",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("llvm output missing %q:\n%s", want, out)
		}
	}
	// One alloca per register cell.
	if n := strings.Count(out, "alloca i64"); n != 3 {
		t.Errorf("want 3 allocas, got %d:\n%s", n, out)
	}
}

func TestLLVMEmitForLoop(t *testing.T) {
	pools := ir.NewPools()
	vars := ir.NewVarGen()
	i := vars.Fresh("i")
	acc := vars.Fresh("acc")

	body := ir.NewEnable(pools.Control, ir.Add{
		Dest: ir.VariablePort{Var: acc},
		Src1: ir.VariablePort{Var: acc},
		Src2: ir.VariablePort{Var: i},
	})
	loop := ir.NewFor(pools.Control, i, ir.Constant{Value: 0}, ir.Constant{Value: 8}, 0, body)

	comp := ir.NewComponent(ir.Label{Name: "h", Mangled: "1h_0_0"}, loop)
	comp.Cells[i] = pools.Cells.Add(ir.Register{Width: 3})
	comp.Cells[acc] = pools.Cells.Add(ir.Register{Width: 64})

	var sb strings.Builder
	if err := NewLLVM().Emit(comp, pools, &sb); err != nil {
		t.Fatalf("llvm emit: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"alloca i3",
		"icmp slt",
		"br i1",
		"zext i3",
		"trunc i64",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("llvm loop output missing %q:\n%s", want, out)
		}
	}
}

func TestLLVMRejectsUnloweredAccess(t *testing.T) {
	pools := ir.NewPools()
	vars := ir.NewVarGen()
	arr := vars.Fresh("arr")
	y := vars.Fresh("y")

	enable := ir.NewEnable(pools.Control, ir.Assign{
		Dest: ir.VariablePort{Var: y},
		Src:  ir.Access{Array: arr, Indices: []ir.Port{ir.Constant{Value: 0}}},
	})
	comp := ir.NewComponent(ir.Label{Name: "bad", Mangled: "3bad_0_0"}, enable)

	var sb strings.Builder
	if err := NewLLVM().Emit(comp, pools, &sb); err == nil {
		t.Fatal("expected an error for an Access port reaching emission")
	}
}
