package nand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillBlock(t *testing.T, d *Device, block int) {
	t.Helper()
	for p := 0; p < d.Geometry().PagesPerBlock; p++ {
		require.True(t, mustWrite(t, d, block, p))
	}
}

func TestNewWritePolicy_Names(t *testing.T) {
	tests := []struct {
		kind WritePolicyKind
		want string
	}{
		{"", "default"},
		{WritePolicyDefault, "default"},
		{WritePolicyInPlace, "in-place"},
		{WritePolicyInPlaceNoErase, "in-place-no-erase"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewWritePolicy(tt.kind).Name())
	}
}

func TestNewWritePolicy_UnknownPanics(t *testing.T) {
	assert.False(t, IsValidWritePolicy("log-structured"))
	assert.Panics(t, func() { NewWritePolicy("log-structured") })
}

// Writing every page exactly once never needs a policy.
func TestSequentialFill_AmplificationIsOne(t *testing.T) {
	d := newTestDevice(t, 4, 8, nil)
	for b := 0; b < 4; b++ {
		fillBlock(t, d, b)
	}

	assert.Equal(t, int64(32), d.HostWrites())
	assert.Equal(t, int64(32), d.DiskWrites())
	assert.InDelta(t, 1.0, d.WriteAmplification(), 1e-12)
	assert.Zero(t, d.FailureRate())
	assert.Zero(t, d.EmptyPages())
}

func TestDefaultPolicy_RelocationCostsOnePageWrite(t *testing.T) {
	// GIVEN a 2x4 device with block 0 full
	d := newTestDevice(t, 2, 4, &DefaultPolicy{})
	fillBlock(t, d, 0)

	// WHEN page 0 is overwritten
	ok := mustWrite(t, d, 0, 0)

	// THEN the data moves to block 1 at the cost of a single write
	assert.True(t, ok)
	assert.Equal(t, PageDirty, d.PageStatus(0, 0))
	assert.Equal(t, PageInUse, d.PageStatus(1, 0))
	assert.Equal(t, int64(5), d.HostWrites())
	assert.Equal(t, int64(5), d.DiskWrites())
	assert.InDelta(t, 1.0, d.WriteAmplification(), 1e-12)
	assert.Zero(t, d.FailedWrites())
}

func TestDefaultPolicy_RelocatesToFirstOtherBlock(t *testing.T) {
	// GIVEN block 0 full and block 2 partially written
	d := newTestDevice(t, 3, 4, &DefaultPolicy{})
	fillBlock(t, d, 0)
	mustWrite(t, d, 2, 0)
	fillBlock(t, d, 1)

	// WHEN page 1 of block 0 is overwritten
	ok := mustWrite(t, d, 0, 1)

	// THEN the data lands in the first empty page of block 2
	assert.True(t, ok)
	assert.Equal(t, PageDirty, d.PageStatus(0, 1))
	assert.Equal(t, PageInUse, d.PageStatus(2, 1))
	assert.Equal(t, 2, d.EmptyPagesIn(2))
	assert.Zero(t, d.DiskReads())
	assert.Zero(t, d.BlocksErased())
}

func TestInPlacePolicy_CompactsBlock(t *testing.T) {
	// GIVEN a single full block of 4 pages
	d := newTestDevice(t, 1, 4, &InPlacePolicy{})
	fillBlock(t, d, 0)

	// WHEN page 0 is overwritten
	ok := mustWrite(t, d, 0, 0)

	// THEN the three other live pages are read, the block erased and all four rewritten
	assert.True(t, ok)
	assert.Equal(t, int64(3), d.DiskReads())
	assert.Equal(t, int64(1), d.BlocksErased())
	assert.Equal(t, int64(8), d.DiskWrites())
	assert.Equal(t, int64(5), d.HostWrites())
	assert.Equal(t, int64(4*40+3*20+1500+4*40), d.Elapsed())
	assert.InDelta(t, 1.6, d.WriteAmplification(), 1e-12)
	assert.Equal(t, 4, d.Block(0).InUse())
	assert.Zero(t, d.DirtyPagesIn(0))
}

func TestInPlacePolicy_DropsDirtyPages(t *testing.T) {
	// GIVEN a full block where page 0 was already superseded within the block
	d := newTestDevice(t, 1, 4, &InPlacePolicy{})
	mustWrite(t, d, 0, 0)
	mustWrite(t, d, 0, 0) // lands on page 1
	mustWrite(t, d, 0, 2)
	mustWrite(t, d, 0, 3)
	require.Equal(t, 1, d.DirtyPagesIn(0))

	// WHEN page 3 is overwritten
	require.True(t, mustWrite(t, d, 0, 3))

	// THEN the dirty page is gone and only the live set is rewritten
	assert.Equal(t, PageEmpty, d.PageStatus(0, 0))
	for _, p := range []int{1, 2, 3} {
		assert.Equal(t, PageInUse, d.PageStatus(0, p))
	}
	assert.Equal(t, int64(2), d.DiskReads(), "pages 1 and 2 were live")
}

func TestInPlaceNoErasePolicy_MovesToEmptyBlock(t *testing.T) {
	// GIVEN block 0 full and block 1 empty
	d := newTestDevice(t, 2, 4, &InPlaceNoErasePolicy{})
	fillBlock(t, d, 0)

	// WHEN page 2 is overwritten
	ok := mustWrite(t, d, 0, 2)

	// THEN the live set moves to block 1 and block 0 is entirely dirty
	assert.True(t, ok)
	assert.Equal(t, 4, d.DirtyPagesIn(0))
	assert.Equal(t, 4, d.Block(1).InUse())
	assert.Equal(t, int64(3), d.DiskReads())
	assert.Zero(t, d.BlocksErased())
	assert.Equal(t, int64(8), d.DiskWrites())
}

func TestInPlaceNoErasePolicy_FallsBackToDefault(t *testing.T) {
	// GIVEN no fully empty block but block 1 has room
	d := newTestDevice(t, 3, 2, &InPlaceNoErasePolicy{})
	fillBlock(t, d, 0)
	mustWrite(t, d, 1, 0)
	fillBlock(t, d, 2)

	// WHEN block 0 is overwritten
	ok := mustWrite(t, d, 0, 0)

	// THEN the default relocation is used
	assert.True(t, ok)
	assert.Equal(t, PageInUse, d.PageStatus(1, 1))
	assert.Equal(t, PageDirty, d.PageStatus(0, 0))
	assert.Equal(t, PageInUse, d.PageStatus(0, 1))
	assert.Zero(t, d.DiskReads())
}

func TestInPlaceNoErasePolicy_FailsWhenDeviceFull(t *testing.T) {
	d := newTestDevice(t, 2, 4, &InPlaceNoErasePolicy{})
	fillBlock(t, d, 0)
	require.True(t, mustWrite(t, d, 0, 0)) // block 0 dirty, block 1 full

	ok := mustWrite(t, d, 1, 0)

	assert.False(t, ok)
	assert.Equal(t, int64(1), d.FailedWrites())
	assert.Equal(t, 4, d.Block(1).InUse())
}
