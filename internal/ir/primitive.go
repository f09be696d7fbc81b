package ir

import "fmt"

// Op is the three-address primitive operation. Exactly three
// variants exist, all sharing the shape "kill := sources": Add, Mul, Assign.
type Op interface {
	isOp()
	// Kill returns the destination port.
	Kill() Port
	// Sources returns the source ports, in operand order.
	Sources() []Port
	// WithPorts returns a copy of the op with its kill and sources replaced.
	// len(srcs) must match len(Sources()).
	WithPorts(kill Port, srcs []Port) Op
	String() string
}

// Add computes Dest = Src1 + Src2.
type Add struct {
	Dest, Src1, Src2 Port
}

func (Add) isOp()            {}
func (a Add) Kill() Port      { return a.Dest }
func (a Add) Sources() []Port { return []Port{a.Src1, a.Src2} }
func (a Add) WithPorts(kill Port, srcs []Port) Op {
	return Add{Dest: kill, Src1: srcs[0], Src2: srcs[1]}
}
func (a Add) String() string {
	return fmt.Sprintf("%s = %s + %s", a.Dest, a.Src1, a.Src2)
}

// Mul computes Dest = Src1 * Src2.
type Mul struct {
	Dest, Src1, Src2 Port
}

func (Mul) isOp()            {}
func (m Mul) Kill() Port      { return m.Dest }
func (m Mul) Sources() []Port { return []Port{m.Src1, m.Src2} }
func (m Mul) WithPorts(kill Port, srcs []Port) Op {
	return Mul{Dest: kill, Src1: srcs[0], Src2: srcs[1]}
}
func (m Mul) String() string {
	return fmt.Sprintf("%s = %s * %s", m.Dest, m.Src1, m.Src2)
}

// Assign computes Dest = Src.
type Assign struct {
	Dest, Src Port
}

func (Assign) isOp()            {}
func (a Assign) Kill() Port      { return a.Dest }
func (a Assign) Sources() []Port { return []Port{a.Src} }
func (a Assign) WithPorts(kill Port, srcs []Port) Op {
	return Assign{Dest: kill, Src: srcs[0]}
}
func (a Assign) String() string {
	return fmt.Sprintf("%s = %s", a.Dest, a.Src)
}

// GenUsed returns every variable read by op: the variables referenced from
// every source port (including nested index ports within Access/
// PartialAccess sources), but never the kill's own root variable unless it
// also appears as an index expression.
func GenUsed(op Op) []Variable {
	var out []Variable
	for _, src := range op.Sources() {
		out = append(out, Vars(src)...)
	}
	// A write through Access also reads the index ports that select the
	// element, even though the kill itself is a destination.
	if acc, ok := op.Kill().(Access); ok {
		for _, idx := range acc.Indices {
			out = append(out, Vars(idx)...)
		}
	}
	return out
}

// KillVar returns the destination variable of op, if its kill is an
// lvalue (Variable/Access/LoweredAccess, never Constant). A write through
// Access kills the root array variable, not a per-element identity: partial
// writes are treated conservatively as killing the whole array.
func KillVar(op Op) (Variable, bool) {
	return RootVar(op.Kill())
}

// PortsUsed returns every sub-port appearing as a source of op.
func PortsUsed(op Op) []Port {
	return append([]Port(nil), op.Sources()...)
}
