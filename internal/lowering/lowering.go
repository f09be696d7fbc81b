// Package lowering implements AST→IR lowering: one Component
// per FuncDecl, built by walking the typed statement/expression tree with a
// ControlBuilder and a scoped Variable environment, then immediately run
// through the Compile pass recipe so every Component this package returns
// already carries allocated cells and computed timing.
package lowering

import (
	"pulsar/internal/diag"
	"pulsar/internal/env"
	"pulsar/internal/frontend/ast"
	"pulsar/internal/ir"
	"pulsar/internal/passrunner"
	"pulsar/internal/pool"
)

// lowerer carries the per-function state lowering threads through statement
// and expression walks: the pools a Component's pieces are allocated from,
// the Variable minter, and the name→Variable scope stack.
type lowerer struct {
	cp       *ir.ControlPool
	cellPool *ir.CellPool
	vars     *ir.VarGen
	scope    *env.Env[ir.Variable]
	cells    map[ir.Variable]pool.Handle
}

// Lower builds and compiles a Component for one function declaration,
// running it through passrunner.Compile before returning it — every
// Component this function returns already has cells and timing.
func Lower(cp *ir.ControlPool, cellPool *ir.CellPool, fn ast.FuncDecl, m *diag.Manager) *ir.Component {
	lw := &lowerer{
		cp:       cp,
		cellPool: cellPool,
		vars:     ir.NewVarGen(),
		scope:    env.New[ir.Variable](),
		cells:    make(map[ir.Variable]pool.Handle),
	}

	var inputs, outputs []ir.IOPair
	var inputTypes, outputTypes []ir.TypeDesc
	for _, p := range fn.Inputs {
		v, cell := lw.bindParam(p)
		inputs = append(inputs, ir.IOPair{Var: v, Cell: cell})
		inputTypes = append(inputTypes, astTypeToDesc(p.Type))
	}
	for _, p := range fn.Outputs {
		v, cell := lw.bindParam(p)
		outputs = append(outputs, ir.IOPair{Var: v, Cell: cell})
		outputTypes = append(outputTypes, astTypeToDesc(p.Type))
	}

	b := NewControlBuilder(cp)
	lw.lowerStmts(fn.Body, b)
	root := b.Finalize()

	label := ir.Label{
		Visibility: ir.Public,
		Name:       fn.Name,
		Mangled:    ir.MangleName(fn.Name, inputTypes, outputTypes),
	}
	comp := ir.NewComponent(label, root)
	comp.Inputs = inputs
	comp.Outputs = outputs
	comp.Cells = lw.cells

	passrunner.Compile(cp, cellPool, comp, m).Run(cp, comp)
	return comp
}

// bindParam mints a Variable for a parameter, binds it in scope, and
// allocates its cell up front — a Memory cell for Array types, since
// CellAlloc's generic fallback only knows how to default a scalar Register.
func (lw *lowerer) bindParam(p ast.Param) (ir.Variable, pool.Handle) {
	v := lw.vars.Fresh(p.Name)
	lw.scope.Bind(p.Name, v)
	cell := lw.cellPool.Add(cellForType(p.Type))
	lw.cells[v] = cell
	return v, cell
}

func (lw *lowerer) lowerStmts(stmts []ast.Stmt, b *ControlBuilder) {
	for _, s := range stmts {
		switch t := s.(type) {
		case ast.LetStmt:
			lw.lowerLet(t, b)
		case ast.AssignStmt:
			lw.lowerAssign(t, b)
		case ast.DividerStmt:
			b.Split()
		case ast.ForStmt:
			lw.lowerFor(t, b)
		}
	}
}

// lowerLet handles the array-literal case specially so the bound name
// aliases the literal's own backing cell directly, rather than minting a
// second array-typed variable and a whole-array copy assign to go with it.
func (lw *lowerer) lowerLet(s ast.LetStmt, b *ControlBuilder) {
	if lit, ok := s.Expr.(ast.ArrayLit); ok {
		v := lw.vars.Fresh(s.Name)
		lw.cells[v] = lw.cellPool.Add(cellForType(lit.Type))
		lw.emitArrayLitWrites(v, lit, b)
		lw.scope.Bind(s.Name, v)
		return
	}
	src := lw.lowerExpr(s.Expr, b)
	v := lw.vars.Fresh(s.Name)
	b.Push(ir.NewEnable(lw.cp, ir.Assign{Dest: ir.VariablePort{Var: v}, Src: src}))
	lw.scope.Bind(s.Name, v)
}

func (lw *lowerer) lowerAssign(s ast.AssignStmt, b *ControlBuilder) {
	src := lw.lowerExpr(s.RHS, b)
	dest := lw.lowerExpr(s.LHS, b)
	b.Push(ir.NewEnable(lw.cp, ir.Assign{Dest: dest, Src: src}))
}

func (lw *lowerer) lowerFor(s ast.ForStmt, b *ControlBuilder) {
	lower := lw.lowerExpr(s.Lower, b)
	upper := lw.lowerExpr(s.Upper, b)

	lw.scope.Push()
	forVar := lw.vars.Fresh(s.Var)
	lw.scope.Bind(s.Var, forVar)

	childB := NewControlBuilder(lw.cp)
	lw.lowerStmts(s.Body, childB)
	body := childB.Finalize()

	lw.scope.Pop()
	b.Push(ir.NewFor(lw.cp, forVar, lower, upper, 0, body))
}

// lowerExpr lowers e to the Port that denotes its value, pushing any
// side-effecting Enables (one per Add/Mul/array-element-write) onto b in
// evaluation order as it goes.
func (lw *lowerer) lowerExpr(e ast.Expr, b *ControlBuilder) ir.Port {
	switch t := e.(type) {
	case ast.IntLit:
		return ir.Constant{Value: t.Value}
	case ast.NameExpr:
		v, ok := lw.scope.Find(t.Name)
		if !ok {
			// typecheck already rejected undeclared names; this only
			// guards against lowering a tree that skipped it.
			v = lw.vars.Fresh(t.Name)
		}
		return ir.VariablePort{Var: v}
	case ast.BinaryExpr:
		left := lw.lowerExpr(t.Left, b)
		right := lw.lowerExpr(t.Right, b)
		res := lw.vars.Fresh("")
		dest := ir.VariablePort{Var: res}
		var op ir.Op
		if t.Op == ast.OpMul {
			op = ir.Mul{Dest: dest, Src1: left, Src2: right}
		} else {
			op = ir.Add{Dest: dest, Src1: left, Src2: right}
		}
		b.Push(ir.NewEnable(lw.cp, op))
		return dest
	case ast.IndexExpr:
		arr := lw.lowerExpr(t.Array, b)
		idx := lw.lowerExpr(t.Index, b)
		return ir.PartialAccess{Array: arr, Index: idx}
	case ast.ArrayLit:
		res := lw.vars.Fresh("")
		lw.cells[res] = lw.cellPool.Add(cellForType(t.Type))
		lw.emitArrayLitWrites(res, t, b)
		return ir.VariablePort{Var: res}
	default:
		return ir.Constant{Value: 0}
	}
}

// emitArrayLitWrites pushes one Enable(Assign(PartialAccess(dest, i), elem))
// per literal element.
func (lw *lowerer) emitArrayLitWrites(dest ir.Variable, lit ast.ArrayLit, b *ControlBuilder) {
	for i, el := range lit.Elements {
		p := lw.lowerExpr(el, b)
		slot := ir.PartialAccess{Array: ir.VariablePort{Var: dest}, Index: ir.Constant{Value: int64(i)}}
		b.Push(ir.NewEnable(lw.cp, ir.Assign{Dest: slot, Src: p}))
	}
}

// cellForType picks the Cell shape a variable of t needs: a single Memory
// level for Array, a plain 64-bit Register otherwise. CellAlloc's own
// default only ever produces a 64-bit Register, so any array-typed
// variable must have its cell allocated here, before CellAlloc ever runs.
func cellForType(t ast.Type) ir.Cell {
	if t.Kind == ast.Array {
		return ir.Memory{Levels: []ir.MemoryLevel{{Length: t.Size, Banks: 1}}, ElemWidth: 64}
	}
	return ir.Register{Width: 64}
}

// astTypeToDesc shadows a front-end Type as the ir-level TypeDesc MangleName
// needs, without internal/ir importing internal/frontend/ast (the
// dependency is one-way: ir must never import the front end).
func astTypeToDesc(t ast.Type) ir.TypeDesc {
	if t.Kind == ast.Array {
		elem := astTypeToDesc(*t.Elem)
		return ir.TypeDesc{Kind: ir.ArrayKind, Elem: &elem, Size: t.Size}
	}
	if t.Kind == ast.Int64 {
		return ir.TypeDesc{Kind: ir.Int64Kind}
	}
	return ir.TypeDesc{Kind: ir.UnitKind}
}
