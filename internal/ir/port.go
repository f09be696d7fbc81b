package ir

import (
	"fmt"
	"strings"

	"pulsar/internal/pool"
)

// Port is a value source or
// destination inside a primitive op. Exactly five variants exist; Port is a
// closed interface (unexported marker method) so the set cannot grow outside
// this package.
type Port interface {
	isPort()
	// Key returns a canonical string uniquely identifying this port's
	// structural value, used by PortPool to intern equal ports onto the same
	// handle and by analyses that need a comparable set element.
	Key() string
	// String renders the port for diagnostics and the text target.
	String() string
}

// Constant is a literal integer source port. It can never be a kill (an
// lvalue) — WellFormed enforces this.
type Constant struct {
	Value int64
}

func (Constant) isPort()         {}
func (c Constant) Key() string   { return fmt.Sprintf("c:%d", c.Value) }
func (c Constant) String() string { return fmt.Sprintf("%d", c.Value) }

// VariablePort names a scalar variable directly.
type VariablePort struct {
	Var Variable
}

func (VariablePort) isPort()          {}
func (p VariablePort) Key() string    { return fmt.Sprintf("v:%d", p.Var.ID()) }
func (p VariablePort) String() string { return p.Var.String() }

// PartialAccess is the non-canonical array-index chain produced directly by
// expression lowering (`array[index]` lowers to PartialAccess
// before Canonicalize runs). No PartialAccess may survive Canonicalize.
type PartialAccess struct {
	Array Port
	Index Port
}

func (PartialAccess) isPort() {}
func (p PartialAccess) Key() string {
	return fmt.Sprintf("pa:(%s)[%s]", p.Array.Key(), p.Index.Key())
}
func (p PartialAccess) String() string {
	return fmt.Sprintf("%s[%s]", p.Array.String(), p.Index.String())
}

// Access is the canonical multi-dimensional array reference Canonicalize
// produces: an array root variable plus a non-empty vector of index ports.
type Access struct {
	Array   Variable
	Indices []Port
}

func (Access) isPort() {}
func (a Access) Key() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "a:%d[", a.Array.ID())
	for i, idx := range a.Indices {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(idx.Key())
	}
	sb.WriteByte(']')
	return sb.String()
}
func (a Access) String() string {
	var sb strings.Builder
	sb.WriteString(a.Array.String())
	for _, idx := range a.Indices {
		fmt.Fprintf(&sb, "[%s]", idx.String())
	}
	return sb.String()
}

// LoweredAccess is the opaque post-RewriteAccesses stand-in for an address
// computed by the address-generator path: it names the array root variable
// but no longer carries index ports (those become separate
// address-computing Enables in the address-generator component).
type LoweredAccess struct {
	Array Variable
}

func (LoweredAccess) isPort()         {}
func (p LoweredAccess) Key() string   { return fmt.Sprintf("la:%d", p.Array.ID()) }
func (p LoweredAccess) String() string { return fmt.Sprintf("addr(%s)", p.Array.String()) }

// Vars returns every Variable referenced anywhere within p, including nested
// index ports.
func Vars(p Port) []Variable {
	var out []Variable
	collectVars(p, &out)
	return out
}

func collectVars(p Port, out *[]Variable) {
	switch t := p.(type) {
	case Constant:
	case VariablePort:
		*out = append(*out, t.Var)
	case PartialAccess:
		collectVars(t.Array, out)
		collectVars(t.Index, out)
	case Access:
		*out = append(*out, t.Array)
		for _, idx := range t.Indices {
			collectVars(idx, out)
		}
	case LoweredAccess:
		*out = append(*out, t.Array)
	}
}

// RootVar returns the single variable a port denotes as an lvalue root, if
// any. Constant never has one; PartialAccess only has one once its Array
// chain bottoms out at a Variable/Access/LoweredAccess.
func RootVar(p Port) (Variable, bool) {
	switch t := p.(type) {
	case VariablePort:
		return t.Var, true
	case Access:
		return t.Array, true
	case LoweredAccess:
		return t.Array, true
	case PartialAccess:
		return RootVar(t.Array)
	default:
		return Variable{}, false
	}
}

// SubPorts returns p's immediate child ports (empty for Constant/Variable/
// LoweredAccess, [Array, Index] for PartialAccess, Indices for Access). Used
// by the visitor framework's port-rewriting helpers.
func SubPorts(p Port) []Port {
	switch t := p.(type) {
	case PartialAccess:
		return []Port{t.Array, t.Index}
	case Access:
		return append([]Port(nil), t.Indices...)
	default:
		return nil
	}
}

// PortPool gives ports pool-handle identity for the side-effect analysis's
// effectual-port set and
// for the emission-target boundary, where a Target is handed the port pool
// read-only alongside the control and cell pools. Structurally equal
// ports intern onto the same handle.
type PortPool struct {
	pool     *pool.Pool[Port, struct{}]
	interned map[string]pool.Handle
}

// NewPortPool returns an empty PortPool.
func NewPortPool() *PortPool {
	return &PortPool{
		pool:     pool.New[Port, struct{}](0),
		interned: make(map[string]pool.Handle),
	}
}

// Intern returns the handle for p, allocating a new slot only the first time
// a structurally distinct port is seen.
func (pp *PortPool) Intern(p Port) pool.Handle {
	k := p.Key()
	if h, ok := pp.interned[k]; ok {
		return h
	}
	h := pp.pool.Add(p)
	pp.interned[k] = h
	return h
}

// Get returns the port stored at h.
func (pp *PortPool) Get(h pool.Handle) Port { return pp.pool.Get(h) }

// Len reports the number of distinct interned ports.
func (pp *PortPool) Len() int { return pp.pool.Len() }
