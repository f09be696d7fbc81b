package passes

import (
	"pulsar/internal/ir"
	"pulsar/internal/pool"
	"pulsar/internal/visitor"
)

// CalculateTiming writes each Enable's latency as Control-pool metadata
//: Add costs 0 cycles, Mul costs 4, Assign costs 0. It never
// touches the node's fields, only its pool metadata slot, so it never
// reports ModifiedInternally — TimingAnalysis and DeadCode (under
// PreserveTiming) are the consumers that read it back.
type CalculateTiming struct {
	visitor.BaseVisitor
	cp *ir.ControlPool
}

func NewCalculateTiming(cp *ir.ControlPool) *CalculateTiming { return &CalculateTiming{cp: cp} }

func (c *CalculateTiming) Name() string  { return "calculate-timing" }
func (c *CalculateTiming) Setup(Options) {}

func (c *CalculateTiming) StartEnable(h pool.Handle, n ir.Node, view *ir.View) visitor.Action {
	var latency int
	switch n.Enable.(type) {
	case ir.Add:
		latency = 0
	case ir.Mul:
		latency = 4
	case ir.Assign:
		latency = 0
	}
	c.cp.WriteMetadata(h, ir.Sequential(latency))
	return visitor.None()
}
