package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Visibility controls how a Label's mangled name is treated by an emission
// target.
type Visibility int

const (
	Private Visibility = iota
	Public
	External
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case External:
		return "external"
	default:
		return "private"
	}
}

// Label identifies a Component: a visibility plus both an unmangled (source)
// name and a mangled (unique) name. Unmangled names are for diagnostics
// only.
type Label struct {
	Visibility Visibility
	Name       string
	Mangled    string
}

// TypeDesc is the IR-level shadow of the front-end's resolved Type: Unit,
// Int64, or Array(element, size). It exists so the IR package —
// which the front-end must not import, to keep the AST→IR boundary one-way —
// can still compute a name mangling from input/output signatures.
type TypeDesc struct {
	Kind  TypeKind
	Elem  *TypeDesc // non-nil only when Kind == ArrayKind
	Size  int       // valid only when Kind == ArrayKind
}

type TypeKind int

const (
	UnitKind TypeKind = iota
	Int64Kind
	ArrayKind
)

// encode renders t as a length-prefixed token: "U" for Unit, "I" for Int64,
// and "A<size>_<elemlen><elem>" for arrays, so two structurally different
// types can never produce the same encoded prefix regardless of what
// follows it.
func (t TypeDesc) encode() string {
	switch t.Kind {
	case UnitKind:
		return "U"
	case Int64Kind:
		return "I"
	case ArrayKind:
		elem := t.Elem.encode()
		return fmt.Sprintf("A%d_%d%s", t.Size, len(elem), elem)
	default:
		return "?"
	}
}

// MangleName derives a unique mangled label from a function name and its
// ordered input/output types using a fixed length-prefixed encoding: each
// component is emitted as "<len>_<token>" so concatenation
// can never be ambiguous between adjacent fields, and two distinct
// (name, inputs, outputs) triples are guaranteed to mangle to distinct
// strings.
func MangleName(name string, inputs, outputs []TypeDesc) string {
	var sb strings.Builder
	writeField(&sb, name)
	sb.WriteByte('_')
	sb.WriteString(strconv.Itoa(len(inputs)))
	for _, in := range inputs {
		tok := in.encode()
		writeField(&sb, tok)
	}
	sb.WriteByte('_')
	sb.WriteString(strconv.Itoa(len(outputs)))
	for _, out := range outputs {
		tok := out.encode()
		writeField(&sb, tok)
	}
	return sb.String()
}

func writeField(sb *strings.Builder, s string) {
	fmt.Fprintf(sb, "%d%s", len(s), s)
}
