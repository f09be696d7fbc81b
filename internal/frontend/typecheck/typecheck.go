// Package typecheck fills in every ast.Expr's Type field from the explicit
// parameter/return annotations a declaration carries: a small monomorphic
// checker rather than full Hindley–Milner inference. It requires explicit
// annotation wherever a real inferencer would otherwise guess, and never
// imports internal/lowering — the dependency runs the other way.
package typecheck

import (
	"fmt"

	"pulsar/internal/frontend/ast"
)

// Error reports a single type mismatch, with enough context for diag to
// render a caret (line only; this front-end has no column tracking).
type Error struct {
	Line    int
	Message string
}

func (e Error) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Message) }

// Scope maps a bound name to its resolved type within one function body.
type scope struct {
	vars   map[string]ast.Type
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]ast.Type), parent: parent}
}

func (s *scope) bind(name string, t ast.Type) { s.vars[name] = t }

func (s *scope) lookup(name string) (ast.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return ast.Type{}, false
}

// Check type-checks every declaration in place, returning every FuncDecl
// with every Expr's Type field resolved, or the first error encountered.
func Check(decls []ast.FuncDecl) ([]ast.FuncDecl, []error) {
	var errs []error
	out := make([]ast.FuncDecl, len(decls))
	for i, d := range decls {
		checked, declErrs := checkFunc(d)
		out[i] = checked
		errs = append(errs, declErrs...)
	}
	return out, errs
}

func checkFunc(d ast.FuncDecl) (ast.FuncDecl, []error) {
	var errs []error
	root := newScope(nil)
	for _, in := range d.Inputs {
		root.bind(in.Name, in.Type)
	}
	for _, out := range d.Outputs {
		root.bind(out.Name, out.Type)
	}
	d.Body, errs = checkStmts(d.Body, root)
	return d, errs
}

func checkStmts(stmts []ast.Stmt, sc *scope) ([]ast.Stmt, []error) {
	var errs []error
	out := make([]ast.Stmt, len(stmts))
	for i, s := range stmts {
		switch t := s.(type) {
		case ast.LetStmt:
			expr, es := checkExpr(t.Expr, sc)
			errs = append(errs, es...)
			sc.bind(t.Name, expr.ExprType())
			t.Expr = expr
			out[i] = t
		case ast.AssignStmt:
			lhs, es1 := checkExpr(t.LHS, sc)
			rhs, es2 := checkExpr(t.RHS, sc)
			errs = append(errs, es1...)
			errs = append(errs, es2...)
			if !lhs.ExprType().Equal(rhs.ExprType()) {
				errs = append(errs, Error{Line: t.Line, Message: fmt.Sprintf(
					"cannot assign %s to %s", rhs.ExprType(), lhs.ExprType())})
			}
			t.LHS, t.RHS = lhs, rhs
			out[i] = t
		case ast.DividerStmt:
			out[i] = t
		case ast.ForStmt:
			lower, es1 := checkExpr(t.Lower, sc)
			upper, es2 := checkExpr(t.Upper, sc)
			errs = append(errs, es1...)
			errs = append(errs, es2...)
			inner := newScope(sc)
			inner.bind(t.Var, ast.Type{Kind: ast.Int64})
			body, bodyErrs := checkStmts(t.Body, inner)
			errs = append(errs, bodyErrs...)
			t.Lower, t.Upper, t.Body = lower, upper, body
			out[i] = t
		}
	}
	return out, errs
}

func checkExpr(e ast.Expr, sc *scope) (ast.Expr, []error) {
	switch t := e.(type) {
	case ast.IntLit:
		t.Type = ast.Type{Kind: ast.Int64}
		return t, nil
	case ast.NameExpr:
		typ, ok := sc.lookup(t.Name)
		if !ok {
			return t, []error{Error{Line: t.Line, Message: fmt.Sprintf("undeclared name %q", t.Name)}}
		}
		t.Type = typ
		return t, nil
	case ast.BinaryExpr:
		left, es1 := checkExpr(t.Left, sc)
		right, es2 := checkExpr(t.Right, sc)
		errs := append(es1, es2...)
		t.Left, t.Right = left, right
		if !left.ExprType().Equal(right.ExprType()) {
			errs = append(errs, Error{Line: t.Line, Message: fmt.Sprintf(
				"operand type mismatch: %s vs %s", left.ExprType(), right.ExprType())})
		}
		t.Type = left.ExprType()
		return t, errs
	case ast.IndexExpr:
		arr, es1 := checkExpr(t.Array, sc)
		idx, es2 := checkExpr(t.Index, sc)
		errs := append(es1, es2...)
		t.Array, t.Index = arr, idx
		if idx.ExprType().Kind != ast.Int64 {
			errs = append(errs, Error{Line: t.Line, Message: "array index must be Int64"})
		}
		if arr.ExprType().Kind == ast.Array {
			t.Type = *arr.ExprType().Elem
		} else {
			errs = append(errs, Error{Line: t.Line, Message: fmt.Sprintf("cannot index non-array type %s", arr.ExprType())})
			t.Type = ast.Type{Kind: ast.Int64}
		}
		return t, errs
	case ast.ArrayLit:
		var errs []error
		elems := make([]ast.Expr, len(t.Elements))
		var elemType ast.Type
		for i, el := range t.Elements {
			checked, es := checkExpr(el, sc)
			errs = append(errs, es...)
			elems[i] = checked
			if i == 0 {
				elemType = checked.ExprType()
			} else if !checked.ExprType().Equal(elemType) {
				errs = append(errs, Error{Line: checked.ExprLine(), Message: fmt.Sprintf(
					"array literal element type mismatch: %s vs %s", checked.ExprType(), elemType)})
			}
		}
		t.Elements = elems
		t.Type = ast.Type{Kind: ast.Array, Elem: &elemType, Size: len(elems)}
		return t, errs
	default:
		return e, []error{fmt.Errorf("unhandled expression node %T", e)}
	}
}
