package nand

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/waf-sim/waf-sim/nand/trace"
)

// GarbageCollector reclaims dirty pages. MaybeRun is called after every host
// write attempt and reports whether at least one block was reclaimed.
type GarbageCollector interface {
	Name() string
	MaybeRun(c Controller) (bool, error)
}

// GarbageCollectorKind names a GarbageCollector implementation.
type GarbageCollectorKind string

const (
	GarbageCollectorNone   GarbageCollectorKind = "none"
	GarbageCollectorSimple GarbageCollectorKind = "simple"
)

// ValidGarbageCollectors is the set of recognized garbage collector names.
// Empty string defaults to GarbageCollectorNone.
var ValidGarbageCollectors = map[GarbageCollectorKind]bool{
	"":                     true,
	GarbageCollectorNone:   true,
	GarbageCollectorSimple: true,
}

// IsValidGarbageCollector returns true if name is a recognized garbage collector.
func IsValidGarbageCollector(name string) bool {
	return ValidGarbageCollectors[GarbageCollectorKind(name)]
}

const (
	// DefaultGCMinTimeBetweenRuns is 0.5 ms, roughly every other page write.
	DefaultGCMinTimeBetweenRuns int64 = 500
	// DefaultGCDirtinessThreshold reclaims blocks that are at least 30% dirty.
	DefaultGCDirtinessThreshold = 0.3
)

// GCParams tunes the simple garbage collector.
type GCParams struct {
	// MinTimeBetweenRuns is the device time (µs) that must pass between two
	// passes. Zero runs the collector after every host write.
	MinTimeBetweenRuns int64 `yaml:"min_time_between_runs" validate:"gte=0"`
	// DirtinessThreshold is the fraction of dirty pages, in (0, 1], at which a
	// block is reclaimed. 1 reclaims only fully dirty blocks.
	DirtinessThreshold float64 `yaml:"dirtiness_threshold" validate:"gt=0,lte=1"`
}

// DefaultGCParams returns the parameters used when none are configured.
func DefaultGCParams() GCParams {
	return GCParams{
		MinTimeBetweenRuns: DefaultGCMinTimeBetweenRuns,
		DirtinessThreshold: DefaultGCDirtinessThreshold,
	}
}

// NewGarbageCollector creates a garbage collector by name.
// Panics on unrecognized names; validate with IsValidGarbageCollector first.
func NewGarbageCollector(kind GarbageCollectorKind, params GCParams) GarbageCollector {
	if !ValidGarbageCollectors[kind] {
		panic(fmt.Sprintf("unknown garbage collector %q", kind))
	}
	switch kind {
	case "", GarbageCollectorNone:
		return &NoneGC{}
	case GarbageCollectorSimple:
		return NewSimpleGC(params.MinTimeBetweenRuns, params.DirtinessThreshold)
	default:
		panic(fmt.Sprintf("unhandled garbage collector %q", kind))
	}
}

// NoneGC never runs.
type NoneGC struct{}

func (g *NoneGC) Name() string { return string(GarbageCollectorNone) }

func (g *NoneGC) MaybeRun(_ Controller) (bool, error) {
	return false, nil
}

// SimpleGC runs at most once every MinTimeBetweenRuns of device time and
// reclaims every block whose dirty fraction reaches DirtinessThreshold by
// reading its live pages, erasing it, and writing them back in place.
type SimpleGC struct {
	MinTimeBetweenRuns int64
	DirtinessThreshold float64

	lastRun int64
}

// NewSimpleGC creates a SimpleGC that has never run.
func NewSimpleGC(minTimeBetweenRuns int64, dirtinessThreshold float64) *SimpleGC {
	return &SimpleGC{
		MinTimeBetweenRuns: minTimeBetweenRuns,
		DirtinessThreshold: dirtinessThreshold,
	}
}

func (g *SimpleGC) Name() string { return string(GarbageCollectorSimple) }

// LastRun returns the device time of the last pass.
func (g *SimpleGC) LastRun() int64 { return g.lastRun }

// CheckRun reports whether enough device time has passed since the last pass.
func (g *SimpleGC) CheckRun(c Controller) bool {
	return c.Elapsed()-g.lastRun >= g.MinTimeBetweenRuns
}

// CheckBlock reports whether block is dirty enough to be reclaimed.
func (g *SimpleGC) CheckBlock(c Controller, block int) bool {
	dirty := float64(c.DirtyPagesIn(block)) / float64(c.Geometry().PagesPerBlock)
	return dirty >= g.DirtinessThreshold
}

// ReclaimBlock reads the live pages of block, erases it and writes them back.
func (g *SimpleGC) ReclaimBlock(c Controller, block int) (bool, error) {
	dirty := c.DirtyPagesIn(block)
	clock := c.Elapsed()

	live, err := snapshotLive(c, block, false)
	if err != nil {
		return false, err
	}
	if _, err := c.RawEraseBlock(block); err != nil {
		return false, err
	}
	if err := writeLive(c, block, live); err != nil {
		return false, err
	}

	if st := c.Trace(); st != nil {
		copied := 0
		for _, ok := range live {
			if ok {
				copied++
			}
		}
		st.RecordReclaim(trace.ReclaimRecord{Clock: clock, Block: block, DirtyPages: dirty, LivePages: copied})
	}
	return true, nil
}

func (g *SimpleGC) MaybeRun(c Controller) (bool, error) {
	if !g.CheckRun(c) {
		return false, nil
	}

	clock := c.Elapsed()
	reclaimed := 0
	for b := 0; b < c.Geometry().TotalBlocks; b++ {
		if !g.CheckBlock(c, b) {
			continue
		}
		ok, err := g.ReclaimBlock(c, b)
		if err != nil {
			return false, err
		}
		if ok {
			reclaimed++
		}
	}
	g.lastRun = c.Elapsed()

	if st := c.Trace(); st != nil {
		st.RecordGCRun(trace.GCRunRecord{Clock: clock, Collector: g.Name(), Reclaimed: reclaimed})
	}
	if reclaimed > 0 {
		logrus.Debugf("gc pass at %dµs reclaimed %d blocks", clock, reclaimed)
	}
	return reclaimed > 0, nil
}
