package nand

import "github.com/waf-sim/waf-sim/nand/trace"

// Controller is the mutation surface a WritePolicy or GarbageCollector works
// through. Device is the only implementation; strategies receive it on every
// call instead of holding a reference to the device.
type Controller interface {
	Geometry() Geometry

	// PageStatus returns the state of a page. Indices must be valid.
	PageStatus(block, page int) PageStatus
	// EmptyPagesIn returns the number of empty pages in block.
	EmptyPagesIn(block int) int
	// DirtyPagesIn returns the number of dirty pages in block.
	DirtyPagesIn(block int) int
	// Elapsed returns the accumulated operation latency in microseconds.
	Elapsed() int64

	// MarkDirty moves an InUse page to Dirty without any cost.
	MarkDirty(block, page int) error

	RawWritePage(block, page int) (bool, error)
	RawReadPage(block, page int) (bool, error)
	RawEraseBlock(block int) (bool, error)

	FindFirstEmptyPage(block int) (int, error)
	FindFirstEmptyBlock() (int, bool)

	// Trace returns the decision trace, or nil when tracing is disabled.
	Trace() *trace.SimulationTrace
}

var _ Controller = (*Device)(nil)
