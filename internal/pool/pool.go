// Package pool implements the arena allocator the rest of the compiler
// builds on: a typed, append-only store that hands back small stable
// handles instead of pointers. Values and metadata live in a pair of
// parallel arenas, so every IR object and its per-pass annotations sit at
// the same displacement.
package pool

import "fmt"

// Handle is a stable, copyable reference into a Pool. Two handles compare
// equal iff they were allocated from the same Pool and refer to the same
// slot. A Handle never dangles while its Pool is alive. The ord field is
// the slot's 1-based ordinal, so the zero Handle is invalid and never
// collides with a handle returned by Add.
type Handle struct {
	ord int
}

// Valid reports whether h was ever produced by a Pool.Add call (the zero
// Handle is never returned by Add).
func (h Handle) Valid() bool { return h.ord > 0 }

func (h Handle) String() string { return fmt.Sprintf("#%d", h.ord-1) }

func (h Handle) slot() int { return h.ord - 1 }

// Pool is a typed arena storing values of type V side-by-side with metadata
// of type M. Allocation is O(1) and amortized-constant over growth; handles
// returned by Add remain valid (and keep reading the same value) across any
// number of further Add calls.
type Pool[V any, M any] struct {
	values   []V
	metadata []M
	hasMeta  []bool
}

// New returns an empty Pool. capacityHint pre-sizes the backing arenas; it
// is a performance hint only, not a capacity limit — the arena grows as
// needed.
func New[V any, M any](capacityHint int) *Pool[V, M] {
	return &Pool[V, M]{
		values:   make([]V, 0, capacityHint),
		metadata: make([]M, 0, capacityHint),
		hasMeta:  make([]bool, 0, capacityHint),
	}
}

// Add allocates a new slot holding v and returns its handle. Metadata for the
// new handle is left uninitialized until WriteMetadata is called; GetMetadata
// on an uninitialized handle returns the zero value of M and ok=false.
func (p *Pool[V, M]) Add(v V) Handle {
	p.values = append(p.values, v)
	var zero M
	p.metadata = append(p.metadata, zero)
	p.hasMeta = append(p.hasMeta, false)
	return Handle{ord: len(p.values)}
}

// Get returns the value stored at h. It panics if h was not allocated by
// this Pool: slice indexing turns the misuse into a clean panic rather
// than a stray read.
func (p *Pool[V, M]) Get(h Handle) V {
	return p.values[h.slot()]
}

// GetPtr returns a pointer to the slot holding h's value, for in-place
// mutation.
func (p *Pool[V, M]) GetPtr(h Handle) *V {
	return &p.values[h.slot()]
}

// Set overwrites the value stored at h.
func (p *Pool[V, M]) Set(h Handle, v V) {
	p.values[h.slot()] = v
}

// GetMetadata returns the metadata written for h, if any. Callers that read
// metadata before it was ever written get the zero value and ok=false; most
// callers in this compiler treat "never written" as "use a computed
// default" rather than as an error.
func (p *Pool[V, M]) GetMetadata(h Handle) (m M, ok bool) {
	return p.metadata[h.slot()], p.hasMeta[h.slot()]
}

// WriteMetadata sets the metadata for h.
func (p *Pool[V, M]) WriteMetadata(h Handle, m M) {
	p.metadata[h.slot()] = m
	p.hasMeta[h.slot()] = true
}

// Duplicate deep-copies the value and metadata at h into a new slot and
// returns its handle. valueCopy may be nil if V's zero-value assignment
// already performs a deep copy (true for every value type used in this
// package); pass a custom copier for types holding slices that must not
// alias the original.
func (p *Pool[V, M]) Duplicate(h Handle, valueCopy func(V) V) Handle {
	v := p.values[h.slot()]
	if valueCopy != nil {
		v = valueCopy(v)
	}
	nh := p.Add(v)
	if m, ok := p.GetMetadata(h); ok {
		p.WriteMetadata(nh, m)
	}
	return nh
}

// Snapshot returns every live handle in allocation order. The returned slice
// is a fresh copy; it is unaffected by subsequent Add calls.
func (p *Pool[V, M]) Snapshot() []Handle {
	out := make([]Handle, len(p.values))
	for i := range p.values {
		out[i] = Handle{ord: i + 1}
	}
	return out
}

// Len reports the number of live handles.
func (p *Pool[V, M]) Len() int { return len(p.values) }
