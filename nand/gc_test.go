package nand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waf-sim/waf-sim/nand/trace"
)

func TestNewGarbageCollector(t *testing.T) {
	params := GCParams{MinTimeBetweenRuns: 10, DirtinessThreshold: 0.5}

	assert.Equal(t, "none", NewGarbageCollector("", params).Name())
	assert.Equal(t, "none", NewGarbageCollector(GarbageCollectorNone, params).Name())

	gc, ok := NewGarbageCollector(GarbageCollectorSimple, params).(*SimpleGC)
	require.True(t, ok)
	assert.Equal(t, int64(10), gc.MinTimeBetweenRuns)
	assert.Equal(t, 0.5, gc.DirtinessThreshold)

	assert.Panics(t, func() { NewGarbageCollector("greedy", params) })
}

func TestNoneGC_NeverRuns(t *testing.T) {
	d := newTestDevice(t, 1, 2, nil)
	mustWrite(t, d, 0, 0)
	mustWrite(t, d, 0, 0)

	ran, err := (&NoneGC{}).MaybeRun(d)

	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, 1, d.DirtyPagesIn(0))
}

func TestSimpleGC_WaitsForMinTimeBetweenRuns(t *testing.T) {
	// GIVEN block 0 one quarter dirty after 80µs
	d := newTestDevice(t, 2, 4, nil)
	mustWrite(t, d, 0, 0)
	mustWrite(t, d, 0, 0)
	gc := NewSimpleGC(500, 0.25)

	// WHEN the collector is asked before 500µs have passed
	ran, err := gc.MaybeRun(d)

	// THEN nothing happens
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Zero(t, gc.LastRun())
	assert.Equal(t, 1, d.DirtyPagesIn(0))

	// WHEN the clock moves past the minimum
	_, err = d.RawEraseBlock(1)
	require.NoError(t, err)
	ran, err = gc.MaybeRun(d)

	// THEN block 0 is reclaimed: one live read, one erase, one rewrite
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Zero(t, d.DirtyPagesIn(0))
	assert.Equal(t, PageEmpty, d.PageStatus(0, 0))
	assert.Equal(t, PageInUse, d.PageStatus(0, 1))
	assert.Equal(t, int64(80+1500+20+1500+40), gc.LastRun())
	assert.Equal(t, d.Elapsed(), gc.LastRun())

	// AND an immediate second call is throttled
	ran, err = gc.MaybeRun(d)
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestSimpleGC_ThresholdOneReclaimsOnlyFullyDirtyBlocks(t *testing.T) {
	// GIVEN block 0 fully dirty and block 1 holding the live data plus one dirty page
	d := newTestDevice(t, 3, 4, &InPlaceNoErasePolicy{})
	fillBlock(t, d, 0)
	require.True(t, mustWrite(t, d, 0, 0))
	mustWrite(t, d, 2, 0)
	mustWrite(t, d, 2, 0)
	require.Equal(t, 4, d.DirtyPagesIn(0))
	require.Equal(t, 1, d.DirtyPagesIn(2))
	reads, writes := d.DiskReads(), d.DiskWrites()

	gc := NewSimpleGC(0, 1.0)
	ran, err := gc.MaybeRun(d)

	// THEN only block 0 is erased, with nothing to copy
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 4, d.EmptyPagesIn(0))
	assert.Equal(t, 1, d.DirtyPagesIn(2))
	assert.Equal(t, int64(1), d.BlocksErased())
	assert.Equal(t, reads, d.DiskReads())
	assert.Equal(t, writes, d.DiskWrites())
}

func TestSimpleGC_ThresholdOneSkipsBlockOnePageShort(t *testing.T) {
	// GIVEN a full block with pages_per_block-1 dirty pages and one live page
	d := newTestDevice(t, 2, 4, nil)
	mustWrite(t, d, 0, 0)
	mustWrite(t, d, 0, 0) // lands on page 1
	mustWrite(t, d, 0, 1) // lands on page 2
	mustWrite(t, d, 0, 2) // lands on page 3
	require.Equal(t, 3, d.DirtyPagesIn(0))
	require.Equal(t, PageInUse, d.PageStatus(0, 3))

	// WHEN a collector that only takes fully dirty blocks runs
	ran, err := NewSimpleGC(0, 1.0).MaybeRun(d)

	// THEN the block is left alone
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, 3, d.DirtyPagesIn(0))
	assert.Zero(t, d.BlocksErased())
}

func TestSimpleGC_RecordsTrace(t *testing.T) {
	d := newTestDevice(t, 2, 2, nil)
	d.SetTrace(trace.NewSimulationTrace(trace.Config{Level: trace.TraceLevelDecisions}))
	mustWrite(t, d, 0, 0)
	mustWrite(t, d, 0, 0)

	gc := NewSimpleGC(0, 0.5)
	_, err := gc.MaybeRun(d)
	require.NoError(t, err)
	_, err = gc.MaybeRun(d)
	require.NoError(t, err)

	st := d.Trace()
	require.Len(t, st.GCRuns, 2)
	assert.Equal(t, 1, st.GCRuns[0].Reclaimed)
	assert.Equal(t, 0, st.GCRuns[1].Reclaimed)
	require.Len(t, st.Reclaims, 1)
	assert.Equal(t, trace.ReclaimRecord{Clock: 80, Block: 0, DirtyPages: 1, LivePages: 1}, st.Reclaims[0])
}
