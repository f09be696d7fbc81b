// Package diag implements the error manager: a sink for user-visible
// diagnostics (severity, source span, primary/secondary style, optional
// explanation/fix) shared by the front-end and every compile pass.
// Rendering is hand-rolled with fmt + strings.Builder (a caret under the
// offending column, indented notes). go-isatty gates color to real
// terminals, google/uuid supplies a per-run correlation id attached to
// every diagnostic, and pkg/errors wraps hard aborts with a stack so the
// offending pass is identifiable in the error chain.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	pkgerrors "github.com/pkg/errors"
)

// Severity ranks a diagnostic.
type Severity int

const (
	Info Severity = iota
	Note
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "?"
	}
}

func (s Severity) ansiColor() string {
	switch s {
	case Error:
		return "\x1b[1;31m"
	case Warning:
		return "\x1b[1;33m"
	case Note:
		return "\x1b[1;36m"
	default:
		return "\x1b[1;37m"
	}
}

// Span is a location in source text.
type Span struct {
	File   string
	Line   int
	Column int
	Source string // the source line's text, for caret rendering
}

// Diagnostic is one user-visible message.
type Diagnostic struct {
	Severity        Severity
	Code            string // e.g. "P0001", looked up by --explain
	Message         string
	Primary         Span
	PrimaryLabel    string
	Secondary       []Span
	SecondaryLabels []string
	Explanation     string
	Fix             string
}

// Manager accumulates Diagnostics for one compilation run and renders them.
// Every Diagnostic recorded by a Manager is tagged with that run's
// correlation id so a build log interleaving several pulsarc invocations can
// attribute each line to the run that produced it.
type Manager struct {
	RunID  uuid.UUID
	out    io.Writer
	color  bool
	diags  []Diagnostic
}

// NewManager returns a Manager writing to out. Color is enabled only when out
// is *os.File pointing at a real terminal (github.com/mattn/go-isatty).
func NewManager(out io.Writer) *Manager {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Manager{RunID: uuid.New(), out: out, color: color}
}

// Record appends d to the manager's diagnostic list.
func (m *Manager) Record(d Diagnostic) {
	m.diags = append(m.diags, d)
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
// The compiler aborts if this is ever true.
func (m *Manager) HasErrors() bool {
	for _, d := range m.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Diagnostics returns every recorded diagnostic, in recording order.
func (m *Manager) Diagnostics() []Diagnostic { return append([]Diagnostic(nil), m.diags...) }

// Flush renders every recorded diagnostic to the Manager's output.
func (m *Manager) Flush() {
	for _, d := range m.diags {
		fmt.Fprint(m.out, m.render(d))
	}
}

func (m *Manager) render(d Diagnostic) string {
	var sb strings.Builder
	sev := d.Severity.String()
	if d.Code != "" {
		sev = fmt.Sprintf("%s[%s]", sev, d.Code)
	}
	if m.color {
		fmt.Fprintf(&sb, "%s%s\x1b[0m: %s (run %s)\n", d.Severity.ansiColor(), sev, d.Message, m.RunID)
	} else {
		fmt.Fprintf(&sb, "%s: %s (run %s)\n", sev, d.Message, m.RunID)
	}

	if d.Primary.File != "" {
		fmt.Fprintf(&sb, "  at %s:%d:%d\n", d.Primary.File, d.Primary.Line, d.Primary.Column)
		if d.Primary.Source != "" {
			prefix := fmt.Sprintf("  %d | ", d.Primary.Line)
			fmt.Fprintf(&sb, "\n%s%s\n", prefix, d.Primary.Source)
			sb.WriteString(strings.Repeat(" ", len(prefix)))
			if d.Primary.Column > 0 {
				sb.WriteString(strings.Repeat(" ", d.Primary.Column-1))
			}
			sb.WriteString("^")
			if d.PrimaryLabel != "" {
				fmt.Fprintf(&sb, " %s", d.PrimaryLabel)
			}
			sb.WriteString("\n")
		}
	}

	for i, s := range d.Secondary {
		label := ""
		if i < len(d.SecondaryLabels) {
			label = d.SecondaryLabels[i]
		}
		fmt.Fprintf(&sb, "  note: %s:%d:%d %s\n", s.File, s.Line, s.Column, label)
	}

	if d.Explanation != "" {
		fmt.Fprintf(&sb, "  = explanation: %s\n", d.Explanation)
	}
	if d.Fix != "" {
		fmt.Fprintf(&sb, "  = help: %s\n", d.Fix)
	}
	return sb.String()
}

// Abort records an Error diagnostic for an internal invariant violation
// and returns an error wrapping cause with a stack trace and the offending
// pass/node, suitable for a PassRunner to propagate straight out of the
// compile pipeline.
func (m *Manager) Abort(pass, node string, cause error) error {
	msg := fmt.Sprintf("pass %q: invariant violated at %s: %v", pass, node, cause)
	m.Record(Diagnostic{Severity: Error, Code: "P0100", Message: msg})
	return pkgerrors.Wrapf(cause, "pass %q: invariant violated at %s", pass, node)
}

// AbortResource records a resource-exhaustion abort and
// returns a stack-wrapped error.
func (m *Manager) AbortResource(what string, cause error) error {
	msg := fmt.Sprintf("resource exhausted: %s: %v", what, cause)
	m.Record(Diagnostic{Severity: Error, Code: "P0200", Message: msg})
	return pkgerrors.Wrapf(cause, "resource exhausted: %s", what)
}

// explainTable backs the CLI's --explain CODE flag.
var explainTable = map[string]string{
	"P0001": "A type mismatch was found while checking the program: an operand's resolved type did not match the position it was used in.",
	"P0002": "An undeclared name was referenced. Every name must be bound by a function parameter, a `let`, or a `for` loop variable before use.",
	"P0003": "The source text could not be parsed. The message names the token the parser stopped at and what it expected there.",
	"P0100": "A compile pass detected that the IR it was given violates an invariant it depends on (for example, a constant on the left-hand side of an assignment, or a PartialAccess port surviving past Canonicalize). This indicates a bug in an earlier pass or in AST→IR lowering, not in the source program.",
	"P0200": "The compiler ran out of a bounded internal resource (for example, an arena pool) while compiling. This is not recoverable within the current compilation.",
}

// Explain returns the long-form explanation for code, if known.
func Explain(code string) (string, bool) {
	s, ok := explainTable[code]
	return s, ok
}
