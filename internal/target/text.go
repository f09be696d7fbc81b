package target

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"pulsar/internal/ir"
	"pulsar/internal/pool"
)

// Text is the human-readable structural dump target: the component's label,
// I/O lists, cell map, and an indented rendering of the control tree with
// each node's timing annotation. The golden CLI tests compare against this
// form, so everything it prints is deterministic (cells sort by variable
// ordinal, children print in tree order).
type Text struct{}

// NewText returns the text target.
func NewText() *Text { return &Text{} }

func (*Text) Name() string { return "text" }

func (t *Text) Emit(comp *ir.Component, pools ir.Pools, out io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "component %s %s (%s) {\n", comp.Label.Visibility, comp.Label.Name, comp.Label.Mangled)

	writeIO(&sb, "inputs", comp.Inputs, pools.Cells)
	writeIO(&sb, "outputs", comp.Outputs, pools.Cells)

	vars := make([]ir.Variable, 0, len(comp.Cells))
	for v := range comp.Cells {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Less(vars[j]) })
	sb.WriteString("  cells:\n")
	for _, v := range vars {
		fmt.Fprintf(&sb, "    %s: %s\n", v, cellString(pools.Cells.Get(comp.Cells[v])))
	}

	sb.WriteString("  control:\n")
	writeControl(&sb, pools.Control, comp.Root, 2)
	sb.WriteString("}\n")

	_, err := io.WriteString(out, sb.String())
	return err
}

func writeIO(sb *strings.Builder, label string, pairs []ir.IOPair, cells *ir.CellPool) {
	fmt.Fprintf(sb, "  %s:", label)
	if len(pairs) == 0 {
		sb.WriteString(" (none)")
	}
	sb.WriteString("\n")
	for _, p := range pairs {
		fmt.Fprintf(sb, "    %s: %s\n", p.Var, cellString(cells.Get(p.Cell)))
	}
}

func cellString(c ir.Cell) string {
	switch t := c.(type) {
	case ir.Register:
		return fmt.Sprintf("reg(%d)", t.Width)
	case ir.Memory:
		var sb strings.Builder
		sb.WriteString("mem(")
		for i, lvl := range t.Levels {
			if i > 0 {
				sb.WriteString(" x ")
			}
			fmt.Fprintf(&sb, "%d", lvl.Length)
			if lvl.Banks > 1 {
				fmt.Fprintf(&sb, "/%db", lvl.Banks)
			}
		}
		fmt.Fprintf(&sb, ", elem=%d)", t.ElemWidth)
		return sb.String()
	default:
		return "?"
	}
}

func writeControl(sb *strings.Builder, cp *ir.ControlPool, h pool.Handle, depth int) {
	n := cp.Get(h)
	indent := strings.Repeat("  ", depth)
	timing := ""
	if tm, ok := cp.GetMetadata(h); ok {
		timing = fmt.Sprintf("  [%s]", tm)
	}

	switch n.Kind {
	case ir.EmptyNode:
		fmt.Fprintf(sb, "%sempty%s\n", indent, timing)
	case ir.DelayNode:
		fmt.Fprintf(sb, "%sdelay %d%s\n", indent, n.DelayCycles, timing)
	case ir.EnableNode:
		fmt.Fprintf(sb, "%senable %s%s\n", indent, n.Enable, timing)
	case ir.SeqNode:
		fmt.Fprintf(sb, "%sseq%s\n", indent, timing)
		for _, ch := range n.Children {
			writeControl(sb, cp, ch, depth+1)
		}
	case ir.ParNode:
		fmt.Fprintf(sb, "%spar%s\n", indent, timing)
		for _, ch := range n.Children {
			writeControl(sb, cp, ch, depth+1)
		}
	case ir.ForNode:
		fmt.Fprintf(sb, "%sfor %s in %s..<%s init=%d%s\n",
			indent, n.ForVar, n.ForLower, n.ForUpper, n.ForInitLatency, timing)
		writeControl(sb, cp, n.ForBody, depth+1)
	case ir.IfElseNode:
		fmt.Fprintf(sb, "%sif %s%s\n", indent, n.Cond, timing)
		writeControl(sb, cp, n.True, depth+1)
		fmt.Fprintf(sb, "%selse\n", indent)
		writeControl(sb, cp, n.False, depth+1)
	}
}
