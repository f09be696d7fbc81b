package parser

import (
	"testing"

	"pulsar/internal/frontend/ast"
	"pulsar/internal/frontend/lexer"
)

func parse(t *testing.T, src string) []ast.FuncDecl {
	t.Helper()
	toks := lexer.NewScanner(src).ScanTokens()
	p := NewParser(toks)
	decls := p.Parse()
	if len(p.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors)
	}
	return decls
}

func TestParseSimpleFunction(t *testing.T) {
	decls := parse(t, `func add(a: Int64, b: Int64) -> Int64 {
		let r = a + b
	}`)
	if len(decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(decls))
	}
	fn := decls[0]
	if fn.Name != "add" || len(fn.Inputs) != 2 || len(fn.Outputs) != 1 {
		t.Fatalf("unexpected decl shape: %+v", fn)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body))
	}
	let, ok := fn.Body[0].(ast.LetStmt)
	if !ok || let.Name != "r" {
		t.Fatalf("expected let r = ..., got %+v", fn.Body[0])
	}
	bin, ok := let.Expr.(ast.BinaryExpr)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("expected a + b, got %+v", let.Expr)
	}
}

func TestParseDividerAndForLoop(t *testing.T) {
	decls := parse(t, `func f(n: Int64) -> Int64 {
		let x = 1
		---
		for i in 0..<n {
			let y = i * x
		}
	}`)
	body := decls[0].Body
	if len(body) != 3 {
		t.Fatalf("expected 3 statements (let, divider, for), got %d: %+v", len(body), body)
	}
	if _, ok := body[1].(ast.DividerStmt); !ok {
		t.Fatalf("expected a divider statement, got %+v", body[1])
	}
	forStmt, ok := body[2].(ast.ForStmt)
	if !ok || forStmt.Var != "i" || len(forStmt.Body) != 1 {
		t.Fatalf("expected a for loop over i, got %+v", body[2])
	}
}

func TestParseIndexExprAndArrayLit(t *testing.T) {
	decls := parse(t, `func g(arr: [Int64:4]) -> Int64 {
		let x = [1, 2, 3]
		let y = x[0]
	}`)
	body := decls[0].Body
	yLet := body[1].(ast.LetStmt)
	idx, ok := yLet.Expr.(ast.IndexExpr)
	if !ok {
		t.Fatalf("expected index expression, got %+v", yLet.Expr)
	}
	if name, ok := idx.Array.(ast.NameExpr); !ok || name.Name != "x" {
		t.Fatalf("expected index into x, got %+v", idx.Array)
	}

	xLet := body[0].(ast.LetStmt)
	lit, ok := xLet.Expr.(ast.ArrayLit)
	if !ok || len(lit.Elements) != 3 {
		t.Fatalf("expected a 3-element array literal, got %+v", xLet.Expr)
	}

	arrParam := decls[0].Inputs[0]
	if arrParam.Type.Kind != ast.Array || arrParam.Type.Size != 4 {
		t.Fatalf("expected [Int64:4] param type, got %+v", arrParam.Type)
	}
}

func TestParseAssignStatement(t *testing.T) {
	decls := parse(t, `func h(arr: [Int64:4], v: Int64) -> Int64 {
		arr[0] = v
	}`)
	assign, ok := decls[0].Body[0].(ast.AssignStmt)
	if !ok {
		t.Fatalf("expected an assignment statement, got %+v", decls[0].Body[0])
	}
	if _, ok := assign.LHS.(ast.IndexExpr); !ok {
		t.Fatalf("expected assignment LHS to be an index expression, got %+v", assign.LHS)
	}
}
