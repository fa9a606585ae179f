// Package testutil provides shared test infrastructure for the nand packages.
// It consolidates invariant checks and small device builders used across
// nand/ and nand/experiment/ test packages.
package testutil

import (
	"testing"

	"github.com/waf-sim/waf-sim/nand"
)

// AssertInvariants recounts every page of d and checks it against the cached
// per-block counters and the device totals.
func AssertInvariants(t testing.TB, d *nand.Device) {
	t.Helper()
	g := d.Geometry()

	var empty, dirty, inUse int64
	for b := 0; b < g.TotalBlocks; b++ {
		blk := d.Block(b)
		var e, di, u int
		for p := 0; p < g.PagesPerBlock; p++ {
			switch blk.Status(p) {
			case nand.PageEmpty:
				e++
			case nand.PageDirty:
				di++
			case nand.PageInUse:
				u++
			}
		}
		if e != blk.Empty() {
			t.Errorf("block %d: empty counter %d, recounted %d", b, blk.Empty(), e)
		}
		if di != blk.Dirty() {
			t.Errorf("block %d: dirty counter %d, recounted %d", b, blk.Dirty(), di)
		}
		if blk.Empty()+blk.Dirty()+blk.InUse() != g.PagesPerBlock {
			t.Errorf("block %d: empty %d + dirty %d + in use %d != %d pages",
				b, blk.Empty(), blk.Dirty(), blk.InUse(), g.PagesPerBlock)
		}
		empty += int64(e)
		dirty += int64(di)
		inUse += int64(u)
	}

	if d.EmptyPages() != empty || d.DirtyPages() != dirty || d.InUsePages() != inUse {
		t.Errorf("device totals empty/dirty/in use = %d/%d/%d, recounted %d/%d/%d",
			d.EmptyPages(), d.DirtyPages(), d.InUsePages(), empty, dirty, inUse)
	}
	if empty+dirty+inUse != g.TotalPages() {
		t.Errorf("recounted pages %d != total pages %d", empty+dirty+inUse, g.TotalPages())
	}
}

// SmallDisk returns the default config with the given geometry and strategies.
func SmallDisk(blocks, pages int, wp nand.WritePolicyKind, gc nand.GarbageCollectorKind) nand.DiskConfig {
	cfg := nand.DefaultDiskConfig()
	cfg.TotalBlocks = blocks
	cfg.PagesPerBlock = pages
	cfg.WritePolicy = wp
	cfg.GarbageCollector = gc
	return cfg
}
