package ir

// Pools bundles the three arenas a Component's pieces live in. Passes,
// transforms, and emission targets all take one of these by value (the
// fields are pointers) instead of three separate parameters — the "unify
// the context into a single struct holding all pools" strategy from the
// design notes.
type Pools struct {
	Control *ControlPool
	Cells   *CellPool
	Ports   *PortPool
}

// NewPools returns a Pools with all three arenas freshly allocated.
func NewPools() Pools {
	return Pools{
		Control: NewControlPool(),
		Cells:   NewCellPool(),
		Ports:   NewPortPool(),
	}
}
