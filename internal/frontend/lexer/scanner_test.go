package lexer

import "testing"

func TestScanTokensRecognizesFunctionSignature(t *testing.T) {
	src := "func add(a: Int64, b: Int64) -> Int64 {\n  let r = a + b\n  r\n}\n"
	toks := NewScanner(src).ScanTokens()

	want := []TokenType{
		TokenFunc, TokenIdent, TokenLParen,
		TokenIdent, TokenColon, TokenInt64, TokenComma,
		TokenIdent, TokenColon, TokenInt64, TokenRParen,
		TokenArrow, TokenInt64, TokenLBrace,
		TokenLet, TokenIdent, TokenEqual, TokenIdent, TokenPlus, TokenIdent,
		TokenIdent,
		TokenRBrace, TokenEOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d = %v, want %v", i, toks[i], w)
		}
	}
}

func TestScanTokensRecognizesDividerAndRange(t *testing.T) {
	src := "for i in 0..<4 { }\n---\n"
	toks := NewScanner(src).ScanTokens()
	var gotDivider, gotRange bool
	for _, tok := range toks {
		if tok.Type == TokenDivider {
			gotDivider = true
		}
		if tok.Type == TokenRange {
			gotRange = true
		}
	}
	if !gotDivider || !gotRange {
		t.Fatalf("expected both --- and ..< to be recognized, got %v", toks)
	}
}

func TestScanTokensSkipsLineComments(t *testing.T) {
	src := "let x = 1 // trailing comment\n"
	toks := NewScanner(src).ScanTokens()
	for _, tok := range toks {
		if tok.Lexeme == "//" || tok.Type == TokenNumber && tok.Lexeme != "1" {
			t.Fatalf("comment should have been skipped entirely, got %v", toks)
		}
	}
}
