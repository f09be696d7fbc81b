package analysis

import (
	"testing"

	"pulsar/internal/ir"
	"pulsar/internal/pool"
)

func TestSideEffectSeedsFromOutputs(t *testing.T) {
	cp := ir.NewControlPool()
	g := ir.NewVarGen()
	r, a, b := g.Fresh("r"), g.Fresh("a"), g.Fresh("b")

	add := ir.NewEnable(cp, ir.Add{Dest: ir.VariablePort{Var: r}, Src1: ir.VariablePort{Var: a}, Src2: ir.VariablePort{Var: b}})
	comp := ir.NewComponent(ir.Label{Name: "f"}, add)
	comp.Outputs = []ir.IOPair{{Var: r}}

	res := SideEffect(cp, comp)
	if !res.IsEffectualControl(add) {
		t.Fatalf("Add defining the sole output should be effectual")
	}
	if !res.IsEffectualPort(ir.VariablePort{Var: a}) || !res.IsEffectualPort(ir.VariablePort{Var: b}) {
		t.Fatalf("operands of an effectual Add should become effectual ports")
	}
}

func TestSideEffectDropsDeadDefinitions(t *testing.T) {
	cp := ir.NewControlPool()
	g := ir.NewVarGen()
	dead, a, b := g.Fresh("dead"), g.Fresh("a"), g.Fresh("b")

	mul := ir.NewEnable(cp, ir.Mul{Dest: ir.VariablePort{Var: dead}, Src1: ir.VariablePort{Var: a}, Src2: ir.VariablePort{Var: b}})
	comp := ir.NewComponent(ir.Label{Name: "f"}, mul)
	// No outputs at all.

	res := SideEffect(cp, comp)
	if res.IsEffectualControl(mul) {
		t.Fatalf("Mul whose result is never an output should not be effectual")
	}
}

func TestSideEffectPropagatesAcrossDivider(t *testing.T) {
	// r1 = a + b; ---; r2 = r1 * c   with only r2 as output.
	cp := ir.NewControlPool()
	g := ir.NewVarGen()
	r1, a, b, c, r2 := g.Fresh("r1"), g.Fresh("a"), g.Fresh("b"), g.Fresh("c"), g.Fresh("r2")

	addEnable := ir.NewEnable(cp, ir.Add{Dest: ir.VariablePort{Var: r1}, Src1: ir.VariablePort{Var: a}, Src2: ir.VariablePort{Var: b}})
	mulEnable := ir.NewEnable(cp, ir.Mul{Dest: ir.VariablePort{Var: r2}, Src1: ir.VariablePort{Var: r1}, Src2: ir.VariablePort{Var: c}})
	par1 := ir.NewPar(cp, []pool.Handle{addEnable})
	par2 := ir.NewPar(cp, []pool.Handle{mulEnable})
	root := ir.NewSeq(cp, []pool.Handle{par1, par2})

	comp := ir.NewComponent(ir.Label{Name: "f"}, root)
	comp.Outputs = []ir.IOPair{{Var: r2}}

	res := SideEffect(cp, comp)
	if !res.IsEffectualControl(mulEnable) {
		t.Fatalf("Mul producing the output must be effectual")
	}
	if !res.IsEffectualControl(addEnable) {
		t.Fatalf("Add producing r1, consumed by the later Mul, must be effectual too")
	}
}

func TestSideEffectMonotonicUnderMoreOutputs(t *testing.T) {
	cp := ir.NewControlPool()
	g := ir.NewVarGen()
	x, y := g.Fresh("x"), g.Fresh("y")
	enableX := ir.NewEnable(cp, ir.Assign{Dest: ir.VariablePort{Var: x}, Src: ir.Constant{Value: 1}})
	enableY := ir.NewEnable(cp, ir.Assign{Dest: ir.VariablePort{Var: y}, Src: ir.Constant{Value: 2}})
	root := ir.NewSeq(cp, []pool.Handle{enableX, enableY})

	compSmall := ir.NewComponent(ir.Label{Name: "f"}, root)
	compSmall.Outputs = []ir.IOPair{{Var: x}}
	small := SideEffect(cp, compSmall)

	compBig := ir.NewComponent(ir.Label{Name: "f"}, root)
	compBig.Outputs = []ir.IOPair{{Var: x}, {Var: y}}
	big := SideEffect(cp, compBig)

	for k := range small.EffectualPorts {
		if !big.EffectualPorts[k] {
			t.Fatalf("effectual-port set did not grow monotonically: %q missing from superset run", k)
		}
	}
	if len(big.EffectualPorts) <= len(small.EffectualPorts) {
		t.Fatalf("adding an output should strictly grow the effectual-port set in this example")
	}
}

func TestTimingComposesSeqAndPar(t *testing.T) {
	cp := ir.NewControlPool()
	g := ir.NewVarGen()
	a, b, r := g.Fresh("a"), g.Fresh("b"), g.Fresh("r")

	mul := ir.NewEnable(cp, ir.Mul{Dest: ir.VariablePort{Var: r}, Src1: ir.VariablePort{Var: a}, Src2: ir.VariablePort{Var: b}})
	cp.WriteMetadata(mul, ir.Sequential(4))
	assign := ir.NewEnable(cp, ir.Assign{Dest: ir.VariablePort{Var: r}, Src: ir.VariablePort{Var: a}})
	cp.WriteMetadata(assign, ir.Combinational())

	seq := ir.NewSeq(cp, []pool.Handle{mul, assign})
	par := ir.NewPar(cp, []pool.Handle{mul, assign})

	seqRes := ComputeTiming(cp, seq)
	if got := seqRes.Timing(seq); got != ir.Sequential(4) {
		t.Fatalf("seq timing = %v, want seq(4)", got)
	}

	parRes := ComputeTiming(cp, par)
	if got := parRes.Timing(par); got != ir.Sequential(4) {
		t.Fatalf("par timing = %v, want seq(4)", got)
	}
}

func TestTimingForComposesInitLatencyThenBody(t *testing.T) {
	cp := ir.NewControlPool()
	g := ir.NewVarGen()
	i, r := g.Fresh("i"), g.Fresh("r")
	body := ir.NewEnable(cp, ir.Assign{Dest: ir.VariablePort{Var: r}, Src: ir.VariablePort{Var: i}})
	cp.WriteMetadata(body, ir.Combinational())
	forNode := ir.NewFor(cp, i, ir.Constant{Value: 0}, ir.Constant{Value: 4}, 2, body)

	res := ComputeTiming(cp, forNode)
	if got := res.Timing(forNode); got != ir.Sequential(2) {
		t.Fatalf("for timing = %v, want seq(2)", got)
	}
}
