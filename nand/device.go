package nand

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/waf-sim/waf-sim/nand/trace"
)

// Geometry is the fixed physical layout of a device.
type Geometry struct {
	TotalBlocks   int // must be > 0
	PagesPerBlock int // must be > 0
	PageSize      int // bytes, must be > 0
}

// TotalPages returns TotalBlocks × PagesPerBlock.
func (g Geometry) TotalPages() int64 {
	return int64(g.TotalBlocks) * int64(g.PagesPerBlock)
}

// BlockSize returns the size of one block in bytes.
func (g Geometry) BlockSize() int64 {
	return int64(g.PageSize) * int64(g.PagesPerBlock)
}

// Capacity returns the raw device size in bytes.
func (g Geometry) Capacity() int64 {
	return g.TotalPages() * int64(g.PageSize)
}

func (g Geometry) validate() error {
	if g.TotalBlocks <= 0 {
		return fmt.Errorf("%w: total blocks must be > 0, got %d", ErrInvalidConfig, g.TotalBlocks)
	}
	if g.PagesPerBlock <= 0 {
		return fmt.Errorf("%w: pages per block must be > 0, got %d", ErrInvalidConfig, g.PagesPerBlock)
	}
	if g.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be > 0, got %d", ErrInvalidConfig, g.PageSize)
	}
	return nil
}

// Timing holds the fixed cost of each raw operation in microseconds.
type Timing struct {
	WritePage  int64
	ReadPage   int64
	EraseBlock int64
}

func (t Timing) validate() error {
	if t.WritePage <= 0 {
		return fmt.Errorf("%w: write page time must be > 0, got %d", ErrInvalidConfig, t.WritePage)
	}
	if t.ReadPage <= 0 {
		return fmt.Errorf("%w: read page time must be > 0, got %d", ErrInvalidConfig, t.ReadPage)
	}
	if t.EraseBlock <= 0 {
		return fmt.Errorf("%w: erase block time must be > 0, got %d", ErrInvalidConfig, t.EraseBlock)
	}
	return nil
}

// counters are the raw cumulative counts every derived statistic is built from.
type counters struct {
	elapsed      int64 // µs
	hostWrites   int64
	hostReads    int64
	diskWrites   int64
	diskReads    int64
	failedWrites int64
	erases       int64
}

// Device is the simulated flash translation layer: the block/page grid, the
// cost model, and the raw operations.
//
// Thread-safety: NOT thread-safe. A Device must be driven from one goroutine;
// independent devices share nothing and may run in parallel.
type Device struct {
	geometry Geometry
	timing   Timing
	blocks   []Block
	policy   WritePolicy
	trace    *trace.SimulationTrace

	counters
}

// NewDevice creates a fully empty device. A nil policy selects DefaultPolicy.
func NewDevice(geometry Geometry, timing Timing, policy WritePolicy) (*Device, error) {
	if err := geometry.validate(); err != nil {
		return nil, err
	}
	if err := timing.validate(); err != nil {
		return nil, err
	}
	if policy == nil {
		policy = &DefaultPolicy{}
	}
	d := &Device{
		geometry: geometry,
		timing:   timing,
		blocks:   make([]Block, geometry.TotalBlocks),
		policy:   policy,
	}
	for b := range d.blocks {
		d.blocks[b] = newBlock(geometry.PagesPerBlock)
	}
	return d, nil
}

// Geometry returns the device layout.
func (d *Device) Geometry() Geometry { return d.geometry }

// Timing returns the per-operation costs.
func (d *Device) Timing() Timing { return d.timing }

// WritePolicy returns the bound full-block write policy.
func (d *Device) WritePolicy() WritePolicy { return d.policy }

// Elapsed returns the accumulated operation latency in microseconds.
func (d *Device) Elapsed() int64 { return d.elapsed }

// Trace returns the decision trace, or nil when tracing is disabled.
func (d *Device) Trace() *trace.SimulationTrace { return d.trace }

// SetTrace attaches a decision trace; nil disables tracing.
func (d *Device) SetTrace(st *trace.SimulationTrace) { d.trace = st }

// Block returns a read-only view of block b. The index must be valid.
func (d *Device) Block(b int) *Block { return &d.blocks[b] }

// PageStatus returns the state of a page. Indices must be valid.
func (d *Device) PageStatus(block, page int) PageStatus {
	return d.blocks[block].pages[page]
}

// EmptyPagesIn returns the number of empty pages in block.
func (d *Device) EmptyPagesIn(block int) int { return d.blocks[block].empty }

// DirtyPagesIn returns the number of dirty pages in block.
func (d *Device) DirtyPagesIn(block int) int { return d.blocks[block].dirty }

func (d *Device) checkBlock(block int) error {
	if block < 0 || block >= d.geometry.TotalBlocks {
		return fmt.Errorf("%w: block %d not in [0, %d)", ErrInvalidIndex, block, d.geometry.TotalBlocks)
	}
	return nil
}

func (d *Device) checkPage(block, page int) error {
	if err := d.checkBlock(block); err != nil {
		return err
	}
	if page < 0 || page >= d.geometry.PagesPerBlock {
		return fmt.Errorf("%w: page %d not in [0, %d)", ErrInvalidIndex, page, d.geometry.PagesPerBlock)
	}
	return nil
}

// program writes into an empty page and charges one page write.
func (d *Device) program(block, page int) {
	d.blocks[block].program(page)
	d.elapsed += d.timing.WritePage
	d.diskWrites++
}

// MarkDirty moves an InUse page to Dirty. It costs nothing: the data is not
// touched, only the mapping.
func (d *Device) MarkDirty(block, page int) error {
	if err := d.checkPage(block, page); err != nil {
		return err
	}
	if s := d.blocks[block].pages[page]; s != PageInUse {
		return fmt.Errorf("%w: block %d page %d is %s, want %s", ErrInvalidTransition, block, page, s, PageInUse)
	}
	d.blocks[block].invalidate(page)
	return nil
}

// RawWritePage programs a page.
//
// An Empty page is written directly. Overwriting an InUse page relocates the
// data to the first empty page of the same block, or, when the block is full,
// hands over to the bound WritePolicy; a policy failure is counted as a failed
// write. A write to a Dirty page is discarded and returns false.
func (d *Device) RawWritePage(block, page int) (bool, error) {
	if err := d.checkPage(block, page); err != nil {
		return false, err
	}

	blk := &d.blocks[block]
	switch blk.pages[page] {
	case PageEmpty:
		d.program(block, page)
		return true, nil

	case PageInUse:
		if blk.empty > 0 {
			newPage, err := d.FindFirstEmptyPage(block)
			if err != nil {
				return false, err
			}
			blk.invalidate(page)
			d.program(block, newPage)
			return true, nil
		}
		ok, err := d.fullBlockWrite(block, page)
		if err != nil {
			return false, err
		}
		if !ok {
			d.failedWrites++
			logrus.Debugf("write to block %d page %d failed: %s policy found no room", block, page, d.policy.Name())
			return false, nil
		}
		return true, nil
	}

	// Dirty: stale random write, not a device error.
	return false, nil
}

// fullBlockWrite runs the write policy and records the decision when tracing.
func (d *Device) fullBlockWrite(block, page int) (bool, error) {
	if d.trace == nil {
		return d.policy.FullBlockWrite(d, block, page)
	}
	before := d.counters
	ok, err := d.policy.FullBlockWrite(d, block, page)
	if err != nil {
		return false, err
	}
	d.trace.RecordRelocation(trace.RelocationRecord{
		Clock:     before.elapsed,
		Block:     block,
		Page:      page,
		Policy:    d.policy.Name(),
		Succeeded: ok,
		Writes:    d.diskWrites - before.diskWrites,
		Reads:     d.diskReads - before.diskReads,
		Erases:    d.erases - before.erases,
	})
	return ok, nil
}

// RawReadPage reads a page. Only InUse pages hold data; reading any other
// page returns false without cost.
func (d *Device) RawReadPage(block, page int) (bool, error) {
	if err := d.checkPage(block, page); err != nil {
		return false, err
	}
	if d.blocks[block].pages[page] != PageInUse {
		return false, nil
	}
	d.elapsed += d.timing.ReadPage
	d.diskReads++
	return true, nil
}

// RawEraseBlock resets every page of block to Empty.
func (d *Device) RawEraseBlock(block int) (bool, error) {
	if err := d.checkBlock(block); err != nil {
		return false, err
	}
	d.blocks[block].erase()
	d.elapsed += d.timing.EraseBlock
	d.erases++
	return true, nil
}

// HostWritePage is a write requested by the host. The host write counter is
// incremented only when the underlying raw write succeeds, so discarded and
// failed writes are invisible to WriteAmplification's denominator.
func (d *Device) HostWritePage(block, page int) (bool, error) {
	if err := d.checkPage(block, page); err != nil {
		return false, err
	}
	ok, err := d.RawWritePage(block, page)
	if err != nil || !ok {
		return false, err
	}
	d.hostWrites++
	return true, nil
}

// HostReadPage is a read requested by the host, counted only when it returns data.
func (d *Device) HostReadPage(block, page int) (bool, error) {
	ok, err := d.RawReadPage(block, page)
	if err != nil || !ok {
		return false, err
	}
	d.hostReads++
	return true, nil
}

// FindFirstEmptyPage returns the lowest empty page index of block.
func (d *Device) FindFirstEmptyPage(block int) (int, error) {
	if err := d.checkBlock(block); err != nil {
		return 0, err
	}
	p := d.blocks[block].firstEmpty()
	if p < 0 {
		return 0, fmt.Errorf("%w: block %d", ErrNoEmptyPage, block)
	}
	return p, nil
}

// FindFirstEmptyBlock returns the lowest-indexed block whose pages are all empty.
func (d *Device) FindFirstEmptyBlock() (int, bool) {
	for b := range d.blocks {
		if d.blocks[b].empty == d.geometry.PagesPerBlock {
			return b, true
		}
	}
	return 0, false
}
