// Package unionfind implements a disjoint-set structure over pool.Handle
// values, the substrate a type unifier runs on, kept as a standalone,
// independently testable primitive.
package unionfind

import "pulsar/internal/pool"

// DisjointSet tracks disjoint sets of handles with path compression and
// optional union-by-rank.
type DisjointSet struct {
	parent map[pool.Handle]pool.Handle
	rank   map[pool.Handle]int
}

// New returns an empty DisjointSet.
func New() *DisjointSet {
	return &DisjointSet{
		parent: make(map[pool.Handle]pool.Handle),
		rank:   make(map[pool.Handle]int),
	}
}

// Add inserts v as its own singleton set if it is not already present.
// Re-adding an existing element is a no-op.
func (d *DisjointSet) Add(v pool.Handle) {
	if _, ok := d.parent[v]; ok {
		return
	}
	d.parent[v] = v
	d.rank[v] = 0
}

// Find returns the representative of v's set, compressing the path to it.
// ok is false if v was never added.
func (d *DisjointSet) Find(v pool.Handle) (rep pool.Handle, ok bool) {
	if _, present := d.parent[v]; !present {
		return pool.Handle{}, false
	}
	return d.find(v), true
}

func (d *DisjointSet) find(v pool.Handle) pool.Handle {
	p := d.parent[v]
	if p == v {
		return v
	}
	root := d.find(p)
	d.parent[v] = root
	return root
}

// Union merges the sets containing a and b and returns the resulting
// representative. When byRank is true, the shallower tree is attached under
// the deeper one (standard union-by-rank); when false, b's representative
// always wins — useful for deterministic test expectations where callers
// need to predict which element survives as representative. ok is false if
// either operand was never added.
func (d *DisjointSet) Union(a, b pool.Handle, byRank bool) (rep pool.Handle, ok bool) {
	ra, aok := d.Find(a)
	rb, bok := d.Find(b)
	if !aok || !bok {
		return pool.Handle{}, false
	}
	if ra == rb {
		return ra, true
	}
	if !byRank {
		d.parent[ra] = rb
		return rb, true
	}
	switch {
	case d.rank[ra] < d.rank[rb]:
		d.parent[ra] = rb
		return rb, true
	case d.rank[ra] > d.rank[rb]:
		d.parent[rb] = ra
		return ra, true
	default:
		d.parent[rb] = ra
		d.rank[ra]++
		return ra, true
	}
}

// Collapse path-compresses every currently tracked element in one pass.
func (d *DisjointSet) Collapse() {
	for v := range d.parent {
		d.find(v)
	}
}
