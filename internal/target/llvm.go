package target

import (
	"fmt"
	"io"
	"sort"

	llvmir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	pkgerrors "github.com/pkg/errors"

	"pulsar/internal/ir"
	"pulsar/internal/pool"
)

// LLVM emits a Component as a textual llir/llvm module: one void `define`
// per component, one alloca per Register cell (at the cell's declared
// width), one array alloca plus one flattened-address register per Memory
// cell. Par children are emitted in insertion order — "parallel" is a
// property of the described hardware, and this target is a behavioral
// model of it, not a netlist.
//
// The target expects a lowered component: every array reference must
// already be a LoweredAccess. An Access or PartialAccess reaching Emit is
// an IR invariant violation and aborts the emission.
type LLVM struct{}

// NewLLVM returns the LLVM target.
func NewLLVM() *LLVM { return &LLVM{} }

func (*LLVM) Name() string { return "llvm" }

func (t *LLVM) Emit(comp *ir.Component, pools ir.Pools, out io.Writer) error {
	m := llvmir.NewModule()
	f := m.NewFunc(comp.Label.Mangled, types.Void)

	e := &llvmEmitter{
		cp:      pools.Control,
		cells:   pools.Cells,
		fn:      f,
		scalars: make(map[uint64]llvmSlot),
		addrs:   make(map[uint64]*llvmir.InstAlloca),
	}

	entry := f.NewBlock("entry")
	e.allocateCells(entry, comp)

	last, err := e.emit(entry, comp.Root)
	if err != nil {
		return err
	}
	last.NewRet(nil)

	_, werr := io.WriteString(out, m.String())
	return werr
}

// llvmSlot is one scalar variable's storage: its alloca and the cell's
// declared bit width. Arithmetic happens uniformly in i64; loads zext up
// from narrower slots and stores trunc back down.
type llvmSlot struct {
	ptr   *llvmir.InstAlloca
	width int
}

type llvmEmitter struct {
	cp      *ir.ControlPool
	cells   *ir.CellPool
	fn      *llvmir.Func
	scalars map[uint64]llvmSlot
	addrs   map[uint64]*llvmir.InstAlloca
	nblocks int
}

// allocateCells emits every cell's storage into the entry block, sorted by
// variable ordinal so the module text is deterministic.
func (e *llvmEmitter) allocateCells(entry *llvmir.Block, comp *ir.Component) {
	vars := make([]ir.Variable, 0, len(comp.Cells))
	for v := range comp.Cells {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Less(vars[j]) })

	for _, v := range vars {
		switch c := e.cells.Get(comp.Cells[v]).(type) {
		case ir.Register:
			w := c.Width
			if w <= 0 {
				w = 1
			}
			a := entry.NewAlloca(types.NewInt(uint64(w)))
			a.SetName(slotName(v))
			e.scalars[v.ID()] = llvmSlot{ptr: a, width: w}
		case ir.Memory:
			length := c.FlattenedLength()
			if length > 0 {
				a := entry.NewAlloca(types.NewArray(uint64(length), types.NewInt(uint64(c.ElemWidth))))
				a.SetName(slotName(v) + ".data")
			}
			addr := entry.NewAlloca(types.I64)
			addr.SetName(slotName(v) + ".addr")
			e.addrs[v.ID()] = addr
		}
	}
}

func slotName(v ir.Variable) string {
	if v.Name() != "" {
		return fmt.Sprintf("%s.%d", v.Name(), v.ID())
	}
	return fmt.Sprintf("t%d", v.ID())
}

// emit lowers the subtree at h into blocks starting at cur, returning the
// block emission should continue in.
func (e *llvmEmitter) emit(cur *llvmir.Block, h pool.Handle) (*llvmir.Block, error) {
	n := e.cp.Get(h)
	switch n.Kind {
	case ir.EmptyNode, ir.DelayNode:
		// Delay is a pure-timing artifact; a behavioral model has nothing
		// to execute for it.
		return cur, nil

	case ir.SeqNode, ir.ParNode:
		var err error
		for _, ch := range n.Children {
			cur, err = e.emit(cur, ch)
			if err != nil {
				return nil, err
			}
		}
		return cur, nil

	case ir.EnableNode:
		return cur, e.emitOp(cur, n.Enable)

	case ir.ForNode:
		return e.emitFor(cur, n)

	case ir.IfElseNode:
		return e.emitIfElse(cur, n)

	default:
		return cur, nil
	}
}

func (e *llvmEmitter) emitOp(b *llvmir.Block, op ir.Op) error {
	switch o := op.(type) {
	case ir.Add:
		x, err := e.loadPort(b, o.Src1)
		if err != nil {
			return err
		}
		y, err := e.loadPort(b, o.Src2)
		if err != nil {
			return err
		}
		return e.storePort(b, o.Dest, b.NewAdd(x, y))
	case ir.Mul:
		x, err := e.loadPort(b, o.Src1)
		if err != nil {
			return err
		}
		y, err := e.loadPort(b, o.Src2)
		if err != nil {
			return err
		}
		return e.storePort(b, o.Dest, b.NewMul(x, y))
	case ir.Assign:
		v, err := e.loadPort(b, o.Src)
		if err != nil {
			return err
		}
		return e.storePort(b, o.Dest, v)
	default:
		return pkgerrors.Errorf("llvm target: unknown primitive op %s", op)
	}
}

func (e *llvmEmitter) emitFor(cur *llvmir.Block, n ir.Node) (*llvmir.Block, error) {
	lower, err := e.loadPort(cur, n.ForLower)
	if err != nil {
		return nil, err
	}
	e.storeScalar(cur, n.ForVar, lower)

	cond := e.newBlock("for.cond")
	body := e.newBlock("for.body")
	end := e.newBlock("for.end")
	cur.NewBr(cond)

	iv := e.loadScalar(cond, n.ForVar)
	upper, err := e.loadPort(cond, n.ForUpper)
	if err != nil {
		return nil, err
	}
	cond.NewCondBr(cond.NewICmp(enum.IPredSLT, iv, upper), body, end)

	bodyEnd, err := e.emit(body, n.ForBody)
	if err != nil {
		return nil, err
	}
	next := bodyEnd.NewAdd(e.loadScalar(bodyEnd, n.ForVar), constant.NewInt(types.I64, 1))
	e.storeScalar(bodyEnd, n.ForVar, next)
	bodyEnd.NewBr(cond)

	return end, nil
}

func (e *llvmEmitter) emitIfElse(cur *llvmir.Block, n ir.Node) (*llvmir.Block, error) {
	c, err := e.loadPort(cur, n.Cond)
	if err != nil {
		return nil, err
	}
	tb := e.newBlock("if.then")
	fb := e.newBlock("if.else")
	merge := e.newBlock("if.end")
	cur.NewCondBr(cur.NewICmp(enum.IPredNE, c, constant.NewInt(types.I64, 0)), tb, fb)

	tEnd, err := e.emit(tb, n.True)
	if err != nil {
		return nil, err
	}
	tEnd.NewBr(merge)

	fEnd, err := e.emit(fb, n.False)
	if err != nil {
		return nil, err
	}
	fEnd.NewBr(merge)

	return merge, nil
}

// loadPort materializes p as an i64 value in b.
func (e *llvmEmitter) loadPort(b *llvmir.Block, p ir.Port) (value.Value, error) {
	switch t := p.(type) {
	case ir.Constant:
		return constant.NewInt(types.I64, t.Value), nil
	case ir.VariablePort:
		return e.loadScalar(b, t.Var), nil
	case ir.LoweredAccess:
		return b.NewLoad(types.I64, e.addrReg(t.Array)), nil
	default:
		return nil, pkgerrors.Errorf("llvm target: unlowered array reference %s reached emission", p)
	}
}

func (e *llvmEmitter) storePort(b *llvmir.Block, p ir.Port, v value.Value) error {
	switch t := p.(type) {
	case ir.VariablePort:
		e.storeScalar(b, t.Var, v)
		return nil
	case ir.LoweredAccess:
		b.NewStore(v, e.addrReg(t.Array))
		return nil
	default:
		return pkgerrors.Errorf("llvm target: kill port %s is not an lvalue the target can store to", p)
	}
}

func (e *llvmEmitter) loadScalar(b *llvmir.Block, v ir.Variable) value.Value {
	s := e.slot(v)
	ld := b.NewLoad(types.NewInt(uint64(s.width)), s.ptr)
	if s.width < 64 {
		return b.NewZExt(ld, types.I64)
	}
	return ld
}

func (e *llvmEmitter) storeScalar(b *llvmir.Block, v ir.Variable, val value.Value) {
	s := e.slot(v)
	if s.width < 64 {
		val = b.NewTrunc(val, types.NewInt(uint64(s.width)))
	}
	b.NewStore(val, s.ptr)
}

// slot returns v's storage, allocating a 64-bit slot in the entry block on
// first use for temporaries no cell was ever assigned to.
func (e *llvmEmitter) slot(v ir.Variable) llvmSlot {
	if s, ok := e.scalars[v.ID()]; ok {
		return s
	}
	entry := e.fn.Blocks[0]
	a := entry.NewAlloca(types.I64)
	a.SetName(slotName(v))
	s := llvmSlot{ptr: a, width: 64}
	e.scalars[v.ID()] = s
	return s
}

// addrReg returns the flattened-address register for array v, allocating
// one on demand when the component never declared a Memory cell for it.
func (e *llvmEmitter) addrReg(v ir.Variable) *llvmir.InstAlloca {
	if a, ok := e.addrs[v.ID()]; ok {
		return a
	}
	entry := e.fn.Blocks[0]
	a := entry.NewAlloca(types.I64)
	a.SetName(slotName(v) + ".addr")
	e.addrs[v.ID()] = a
	return a
}

func (e *llvmEmitter) newBlock(prefix string) *llvmir.Block {
	e.nblocks++
	return e.fn.NewBlock(fmt.Sprintf("%s%d", prefix, e.nblocks))
}
