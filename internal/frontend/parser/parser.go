// Package parser implements Pulsar's recursive-descent parser: the usual
// match/consume/peek helpers plus precedence climbing for binary operators,
// over this language's small grammar (func declarations; let/assign/
// divider/for statements; +/* binary exprs, indexing, array literals).
package parser

import (
	"fmt"

	"pulsar/internal/frontend/ast"
	"pulsar/internal/frontend/lexer"
)

// precedence covers the two binary operators this grammar has.
var precedence = map[lexer.TokenType]int{
	lexer.TokenPlus: 1,
	lexer.TokenStar: 2,
}

type Parser struct {
	tokens  []lexer.Token
	current int
	Errors  []error
}

func NewParser(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes every token into a list of function declarations.
func (p *Parser) Parse() []ast.FuncDecl {
	var decls []ast.FuncDecl
	for !p.isAtEnd() {
		p.consume(lexer.TokenFunc, "expected 'func'")
		decls = append(decls, p.funcDecl())
	}
	return decls
}

func (p *Parser) funcDecl() ast.FuncDecl {
	line := p.peek().Line
	name := p.consume(lexer.TokenIdent, "expected function name").Lexeme
	p.consume(lexer.TokenLParen, "expected '(' after function name")
	var inputs []ast.Param
	for !p.check(lexer.TokenRParen) {
		inputs = append(inputs, p.param())
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenRParen, "expected ')' after parameters")

	var outputs []ast.Param
	if p.match(lexer.TokenArrow) {
		outputs = append(outputs, p.unnamedOutput())
	}

	p.consume(lexer.TokenLBrace, "expected '{' to start function body")
	var body []ast.Stmt
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		body = append(body, p.statement())
	}
	p.consume(lexer.TokenRBrace, "expected '}' to close function body")

	return ast.FuncDecl{Name: name, Inputs: inputs, Outputs: outputs, Body: body, Line: line}
}

func (p *Parser) param() ast.Param {
	line := p.peek().Line
	name := p.consume(lexer.TokenIdent, "expected parameter name").Lexeme
	p.consume(lexer.TokenColon, "expected ':' after parameter name")
	t := p.typeExpr()
	return ast.Param{Name: name, Type: t, Line: line}
}

// unnamedOutput parses a bare return type as a single unnamed output bound
// to the conventional name "result"; typecheck gives it a real Variable.
func (p *Parser) unnamedOutput() ast.Param {
	line := p.peek().Line
	t := p.typeExpr()
	return ast.Param{Name: "result", Type: t, Line: line}
}

func (p *Parser) typeExpr() ast.Type {
	if p.match(lexer.TokenInt64) {
		return ast.Type{Kind: ast.Int64}
	}
	if p.match(lexer.TokenLBracket) {
		elem := p.typeExpr()
		p.consume(lexer.TokenColon, "expected ':' after array element type")
		size := p.consume(lexer.TokenNumber, "expected array size")
		p.consume(lexer.TokenRBracket, "expected ']' after array size")
		n := parseInt(size.Lexeme)
		return ast.Type{Kind: ast.Array, Elem: &elem, Size: int(n)}
	}
	p.error("expected a type")
	return ast.Type{Kind: ast.Unit}
}

func (p *Parser) statement() ast.Stmt {
	line := p.peek().Line
	if p.match(lexer.TokenDivider) {
		return ast.DividerStmt{Line: line}
	}
	if p.match(lexer.TokenFor) {
		return p.forStmt(line)
	}
	if p.match(lexer.TokenLet) {
		name := p.consume(lexer.TokenIdent, "expected name after 'let'").Lexeme
		p.consume(lexer.TokenEqual, "expected '=' after let-bound name")
		expr := p.expression()
		return ast.LetStmt{Name: name, Expr: expr, Line: line}
	}
	lhs := p.expression()
	p.consume(lexer.TokenEqual, "expected '=' in assignment")
	rhs := p.expression()
	return ast.AssignStmt{LHS: lhs, RHS: rhs, Line: line}
}

func (p *Parser) forStmt(line int) ast.Stmt {
	v := p.consume(lexer.TokenIdent, "expected loop variable name").Lexeme
	p.consume(lexer.TokenIn, "expected 'in' after loop variable")
	lower := p.expression()
	p.consume(lexer.TokenRange, "expected '..<' in for range")
	upper := p.expression()
	p.consume(lexer.TokenLBrace, "expected '{' to start loop body")
	var body []ast.Stmt
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		body = append(body, p.statement())
	}
	p.consume(lexer.TokenRBrace, "expected '}' to close loop body")
	return ast.ForStmt{Var: v, Lower: lower, Upper: upper, Body: body, Line: line}
}

// expression implements precedence climbing over the binary operator table.
func (p *Parser) expression() ast.Expr {
	return p.binary(1)
}

func (p *Parser) binary(minPrec int) ast.Expr {
	left := p.unary()
	for {
		tok := p.peek()
		prec, isBinary := precedence[tok.Type]
		if !isBinary || prec < minPrec {
			return left
		}
		p.advance()
		right := p.binary(prec + 1)
		op := ast.OpAdd
		if tok.Type == lexer.TokenStar {
			op = ast.OpMul
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right, Line: tok.Line}
	}
}

func (p *Parser) unary() ast.Expr {
	return p.postfix(p.primary())
}

func (p *Parser) postfix(e ast.Expr) ast.Expr {
	for p.match(lexer.TokenLBracket) {
		idx := p.expression()
		p.consume(lexer.TokenRBracket, "expected ']' after index expression")
		e = ast.IndexExpr{Array: e, Index: idx, Line: e.ExprLine()}
	}
	return e
}

func (p *Parser) primary() ast.Expr {
	tok := p.peek()
	switch {
	case p.match(lexer.TokenNumber):
		return ast.IntLit{Value: parseInt(tok.Lexeme), Line: tok.Line}
	case p.match(lexer.TokenIdent):
		return ast.NameExpr{Name: tok.Lexeme, Line: tok.Line}
	case p.match(lexer.TokenLBracket):
		var elems []ast.Expr
		for !p.check(lexer.TokenRBracket) {
			elems = append(elems, p.expression())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		p.consume(lexer.TokenRBracket, "expected ']' to close array literal")
		return ast.ArrayLit{Elements: elems, Line: tok.Line}
	case p.match(lexer.TokenLParen):
		e := p.expression()
		p.consume(lexer.TokenRParen, "expected ')' after parenthesized expression")
		return e
	default:
		p.error("expected an expression")
		return ast.IntLit{Value: 0, Line: tok.Line}
	}
}

func parseInt(s string) int64 {
	var n int64
	for _, c := range s {
		n = n*10 + int64(c-'0')
	}
	return n
}

func (p *Parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) check(t lexer.TokenType) bool {
	return !p.isAtEnd() && p.peek().Type == t
}

func (p *Parser) consume(t lexer.TokenType, msg string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	p.error(msg)
	return p.peek()
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) peek() lexer.Token { return p.tokens[p.current] }

func (p *Parser) isAtEnd() bool { return p.peek().Type == lexer.TokenEOF }

func (p *Parser) error(msg string) {
	p.Errors = append(p.Errors, fmt.Errorf("line %d: %s, got %s", p.peek().Line, msg, p.peek()))
}
