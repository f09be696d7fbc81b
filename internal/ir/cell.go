package ir

import "math/bits"

// Cell is the sum type of hardware storage elements: a fixed-
// width Register or a multi-level Memory.
type Cell interface {
	isCell()
}

// Register is a single-word storage element of the given bit width.
type Register struct {
	Width int
}

func (Register) isCell() {}

// MemoryLevel is one dimension of a Memory cell: Length elements, organized
// into Banks parallel banks (Banks only affects the emitted hardware's
// physical layout, never the address arithmetic the IR computes).
type MemoryLevel struct {
	Length int
	Banks  int
}

// Memory is a multi-dimensional array cell. Levels describes each dimension
// outermost-first; ElemWidth is the bit width of one stored element.
type Memory struct {
	Levels    []MemoryLevel
	ElemWidth int
}

func (Memory) isCell() {}

// FlattenedLength returns the product of every level's length — the total
// element count of the memory viewed as a flat array.
func (m Memory) FlattenedLength() int {
	n := 1
	for _, lvl := range m.Levels {
		n *= lvl.Length
	}
	return n
}

// FlattenedAddrWidth returns ceil(log2(FlattenedLength())), or 0 when the
// flattened length is 0 = 0").
func FlattenedAddrWidth(length int) int {
	if length <= 0 {
		return 0
	}
	if length == 1 {
		return 0
	}
	return bits.Len(uint(length - 1))
}

// AddrWidth is a convenience wrapper over FlattenedAddrWidth(m.FlattenedLength()).
func (m Memory) AddrWidth() int { return FlattenedAddrWidth(m.FlattenedLength()) }
