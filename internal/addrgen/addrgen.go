// Package addrgen implements the address-generator transform: it
// clones a compiled Component into a second one that computes only the
// memory addresses the source touches, discarding every data computation
// that doesn't feed an array access.
package addrgen

import (
	"sort"

	"pulsar/internal/diag"
	"pulsar/internal/ir"
	"pulsar/internal/passes"
	"pulsar/internal/passrunner"
	"pulsar/internal/pool"
)

// accessRef is a uniform view over ir.Access and ir.PartialAccess used while
// scanning a primitive op for array references — by the time this transform
// runs, Canonicalize has folded almost everything to Access, but a stray
// PartialAccess (one that never matched a fold rule) is handled the same way.
type accessRef struct {
	Array   ir.Variable
	Indices []ir.Port
}

type transformer struct {
	cp        *ir.ControlPool
	cells     *ir.CellPool
	origCells map[ir.Variable]pool.Handle
	vars      *ir.VarGen
}

// Transform builds the address-only Component derived from comp and runs
// the Lower PassRunner over it before returning it.
func Transform(cp *ir.ControlPool, cells *ir.CellPool, comp *ir.Component, m *diag.Manager) *ir.Component {
	t := &transformer{cp: cp, cells: cells, origCells: comp.Cells, vars: ir.NewVarGen()}

	newCells := make(map[ir.Variable]pool.Handle)
	for v, h := range comp.Cells {
		mem, ok := cells.Get(h).(ir.Memory)
		if !ok {
			continue
		}
		width := mem.AddrWidth()
		if width == 0 {
			width = 1
		}
		newCells[v] = cells.Add(ir.Register{Width: width})
	}

	newRoot := t.rebuild(comp.Root)

	label := ir.Label{
		Visibility: comp.Label.Visibility,
		Name:       comp.Label.Name + ".addr",
		Mangled:    comp.Label.Mangled + "_addr",
	}
	newComp := ir.NewComponent(label, newRoot)
	newComp.Cells = newCells
	newComp.Outputs = addressOutputs(newCells)

	// The address registers are this component's only externally observable
	// state, so they seed SideEffectAnalysis; everything that doesn't feed
	// one is the "data computation" step 2 defers to dead-code elimination.
	passes.Run(cp, newComp, passes.NewDeadCode(cp, newComp), 0)
	passrunner.Lower(cp, m).Run(cp, newComp)
	return newComp
}

// addressOutputs returns newCells as a deterministically ordered IOPair
// list (sorted by Variable ID, since map iteration order isn't stable).
func addressOutputs(newCells map[ir.Variable]pool.Handle) []ir.IOPair {
	out := make([]ir.IOPair, 0, len(newCells))
	for v, h := range newCells {
		out = append(out, ir.IOPair{Var: v, Cell: h})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Var.Less(out[j].Var) })
	return out
}

func (t *transformer) rebuild(h pool.Handle) pool.Handle {
	n := t.cp.Get(h)
	switch n.Kind {
	case ir.EmptyNode:
		return ir.NewEmpty(t.cp)
	case ir.DelayNode:
		return ir.NewDelay(t.cp, n.DelayCycles)
	case ir.ForNode:
		body := t.rebuild(n.ForBody)
		return ir.NewFor(t.cp, n.ForVar, n.ForLower, n.ForUpper, n.ForInitLatency, body)
	case ir.SeqNode:
		return ir.NewSeq(t.cp, t.rebuildChildren(n.Children))
	case ir.ParNode:
		return ir.NewPar(t.cp, t.rebuildChildren(n.Children))
	case ir.IfElseNode:
		return ir.NewIfElse(t.cp, n.Cond, t.rebuild(n.True), t.rebuild(n.False))
	case ir.EnableNode:
		return t.rebuildEnable(n.Enable)
	default:
		return ir.NewEmpty(t.cp)
	}
}

func (t *transformer) rebuildChildren(children []pool.Handle) []pool.Handle {
	out := make([]pool.Handle, len(children))
	for i, ch := range children {
		out[i] = t.rebuild(ch)
	}
	return out
}

// rebuildEnable replaces an Enable containing any Access/PartialAccess port
// with one address-assigning Enable per access found, or preserves the
// Enable unchanged if it touches no array at all.
func (t *transformer) rebuildEnable(op ir.Op) pool.Handle {
	var refs []accessRef
	for _, src := range op.Sources() {
		findAccesses(src, &refs)
	}
	findAccesses(op.Kill(), &refs)

	if len(refs) == 0 {
		return ir.NewEnable(t.cp, op)
	}

	var handles []pool.Handle
	for _, ref := range refs {
		addr, extra := t.addressExpr(ref)
		handles = append(handles, extra...)
		dest := ir.VariablePort{Var: ref.Array}
		handles = append(handles, ir.NewEnable(t.cp, ir.Assign{Dest: dest, Src: addr}))
	}
	if len(handles) == 1 {
		return handles[0]
	}
	return ir.NewPar(t.cp, handles)
}

// addressExpr computes ref's flattened address as a Port, emitting any
// Mul/Add Enables a multi-level memory's stride arithmetic needs. Every
// array this front end produces has exactly one level, so in practice the
// single-index fast path below is the only one exercised; the general
// dot-product path exists for Memory cells with more levels than the
// front end emits.
func (t *transformer) addressExpr(ref accessRef) (ir.Port, []pool.Handle) {
	mem := t.memoryOf(ref.Array)
	if len(ref.Indices) == 1 || len(mem.Levels) <= 1 {
		return ref.Indices[0], nil
	}

	var handles []pool.Handle
	var sum ir.Port
	for i, idx := range ref.Indices {
		stride := strideOf(mem, i)
		term := idx
		if stride != 1 {
			res := t.vars.Fresh("")
			handles = append(handles, ir.NewEnable(t.cp, ir.Mul{
				Dest: ir.VariablePort{Var: res}, Src1: idx, Src2: ir.Constant{Value: int64(stride)},
			}))
			term = ir.VariablePort{Var: res}
		}
		if sum == nil {
			sum = term
			continue
		}
		res := t.vars.Fresh("")
		handles = append(handles, ir.NewEnable(t.cp, ir.Add{
			Dest: ir.VariablePort{Var: res}, Src1: sum, Src2: term,
		}))
		sum = ir.VariablePort{Var: res}
	}
	return sum, handles
}

func strideOf(mem ir.Memory, level int) int {
	stride := 1
	for i := level + 1; i < len(mem.Levels); i++ {
		stride *= mem.Levels[i].Length
	}
	return stride
}

func (t *transformer) memoryOf(v ir.Variable) ir.Memory {
	h, ok := t.origCells[v]
	if !ok {
		return ir.Memory{Levels: []ir.MemoryLevel{{Length: 1, Banks: 1}}, ElemWidth: 64}
	}
	if mem, ok := t.cells.Get(h).(ir.Memory); ok {
		return mem
	}
	return ir.Memory{Levels: []ir.MemoryLevel{{Length: 1, Banks: 1}}, ElemWidth: 64}
}

func findAccesses(p ir.Port, out *[]accessRef) {
	switch t := p.(type) {
	case ir.Access:
		*out = append(*out, accessRef{Array: t.Array, Indices: t.Indices})
		for _, idx := range t.Indices {
			findAccesses(idx, out)
		}
	case ir.PartialAccess:
		if root, ok := ir.RootVar(t.Array); ok {
			*out = append(*out, accessRef{Array: root, Indices: []ir.Port{t.Index}})
		}
		findAccesses(t.Array, out)
		findAccesses(t.Index, out)
	}
}
