package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestHasErrorsOnlyTrueForErrorSeverity(t *testing.T) {
	m := NewManager(&bytes.Buffer{})
	m.Record(Diagnostic{Severity: Warning, Message: "suspicious shadow"})
	if m.HasErrors() {
		t.Fatalf("a Warning alone should not trip HasErrors")
	}
	m.Record(Diagnostic{Severity: Error, Message: "undeclared name"})
	if !m.HasErrors() {
		t.Fatalf("an Error diagnostic should trip HasErrors")
	}
}

func TestFlushRendersMessageAndCaret(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(&buf)
	m.Record(Diagnostic{
		Severity:     Error,
		Code:         "P0002",
		Message:      "undeclared name `x`",
		Primary:      Span{File: "a.pulsar", Line: 3, Column: 5, Source: "  r = x + 1"},
		PrimaryLabel: "not found in this scope",
	})
	m.Flush()
	out := buf.String()
	for _, want := range []string{"error[P0002]", "undeclared name `x`", "a.pulsar:3:5", "^", "not found in this scope"} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered diagnostic missing %q:\n%s", want, out)
		}
	}
}

func TestManagerUntaggedOutputHasNoColor(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(&buf)
	if m.color {
		t.Fatalf("a plain bytes.Buffer is never a terminal; color should be disabled")
	}
	m.Record(Diagnostic{Severity: Error, Message: "boom"})
	m.Flush()
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("non-tty output must not contain ANSI escapes: %q", buf.String())
	}
}

func TestAbortWrapsCauseAndRecordsError(t *testing.T) {
	m := NewManager(&bytes.Buffer{})
	cause := &sentinelErr{"port pool exhausted"}
	err := m.Abort("CellAlloc", "enable#42", cause)
	if err == nil {
		t.Fatalf("Abort must return a non-nil error")
	}
	if !strings.Contains(err.Error(), "CellAlloc") || !strings.Contains(err.Error(), "enable#42") {
		t.Fatalf("wrapped error should identify pass and node, got %q", err.Error())
	}
	if !m.HasErrors() {
		t.Fatalf("Abort should record an Error diagnostic")
	}
}

func TestExplainTableCoversRecordedCodes(t *testing.T) {
	for _, code := range []string{"P0001", "P0002", "P0100", "P0200"} {
		if _, ok := Explain(code); !ok {
			t.Fatalf("Explain(%q) should be known", code)
		}
	}
	if _, ok := Explain("P9999"); ok {
		t.Fatalf("Explain should not know about a code nobody registered")
	}
}

type sentinelErr struct{ msg string }

func (e *sentinelErr) Error() string { return e.msg }
