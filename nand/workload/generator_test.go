package workload

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waf-sim/waf-sim/nand"
)

var testGeometry = nand.Geometry{TotalBlocks: 4, PagesPerBlock: 8, PageSize: 4096}

func TestNewGenerator_RejectsInvalidSpec(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"unknown distribution", Spec{Distribution: "zipf"}},
		{"read fraction above one", Spec{ReadFraction: 1.5}},
		{"negative hot weight", Spec{Distribution: DistributionHotspot, HotWeight: -0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.spec, testGeometry, nand.NewStreams(1))
			assert.Error(t, err)
		})
	}

	_, err := NewGenerator(Spec{}, testGeometry, nil)
	assert.Error(t, err, "nil streams")
}

func TestGenerator_SequentialWalksEveryPageInOrder(t *testing.T) {
	g, err := NewGenerator(Spec{Distribution: DistributionSequential}, testGeometry, nand.NewStreams(1))
	require.NoError(t, err)

	for lpn := 0; lpn < 32; lpn++ {
		req := g.Next()
		assert.Equal(t, Request{Op: OpWrite, Block: lpn / 8, Page: lpn % 8}, req)
	}
	assert.Equal(t, Request{Op: OpWrite, Block: 0, Page: 0}, g.Next(), "wraps around")
}

func TestGenerator_SameSeedSameStream(t *testing.T) {
	spec := Spec{Distribution: DistributionHotspot, ReadFraction: 0.3}
	a, err := NewGenerator(spec, testGeometry, nand.NewStreams(42))
	require.NoError(t, err)
	b, err := NewGenerator(spec, testGeometry, nand.NewStreams(42))
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Next(), b.Next(), "request %d", i)
	}
}

func TestGenerator_ReadFractionKeepsAddressSequence(t *testing.T) {
	// GIVEN a write-only and a mixed generator with the same seed
	writes, err := NewGenerator(Spec{Distribution: DistributionHotspot}, testGeometry, nand.NewStreams(9))
	require.NoError(t, err)
	mixed, err := NewGenerator(Spec{Distribution: DistributionHotspot, ReadFraction: 0.4}, testGeometry, nand.NewStreams(9))
	require.NoError(t, err)

	// WHEN both produce requests
	for i := 0; i < 500; i++ {
		w, m := writes.Next(), mixed.Next()

		// THEN only the operation differs
		require.Equal(t, w.Block, m.Block, "request %d", i)
		require.Equal(t, w.Page, m.Page, "request %d", i)
	}
}

func TestGenerator_RequestsStayInRange(t *testing.T) {
	for _, dist := range []Distribution{DistributionUniform, DistributionHotspot, DistributionSequential} {
		t.Run(string(dist), func(t *testing.T) {
			g, err := NewGenerator(Spec{Distribution: dist, ReadFraction: 0.5}, testGeometry, nand.NewStreams(7))
			require.NoError(t, err)
			reads := 0
			for i := 0; i < 2000; i++ {
				req := g.Next()
				require.GreaterOrEqual(t, req.Block, 0)
				require.Less(t, req.Block, testGeometry.TotalBlocks)
				require.GreaterOrEqual(t, req.Page, 0)
				require.Less(t, req.Page, testGeometry.PagesPerBlock)
				if req.Op == OpRead {
					reads++
				}
			}
			assert.InDelta(t, 1000, reads, 150)
		})
	}
}

func TestGenerator_WriteOnlyNeverReads(t *testing.T) {
	g, err := NewGenerator(Spec{}, testGeometry, nand.NewStreams(3))
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		assert.Equal(t, OpWrite, g.Next().Op)
	}
}

func TestHotspotSampler_Skew(t *testing.T) {
	s, err := NewAddressSampler(Spec{Distribution: DistributionHotspot}, 1000)
	require.NoError(t, err)
	hs, ok := s.(*HotspotSampler)
	require.True(t, ok)
	assert.Equal(t, int64(200), hs.hot)

	rng := rand.New(rand.NewSource(5))
	hot := 0
	const n = 10000
	for i := 0; i < n; i++ {
		lpn := s.Sample(rng)
		require.Less(t, lpn, int64(1000))
		if lpn < 200 {
			hot++
		}
	}
	assert.InDelta(t, 0.8, float64(hot)/n, 0.03)
}

func TestNewAddressSampler_Errors(t *testing.T) {
	_, err := NewAddressSampler(Spec{}, 0)
	assert.Error(t, err)
	_, err = NewAddressSampler(Spec{Distribution: "zipf"}, 10)
	assert.Error(t, err)
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "write", OpWrite.String())
	assert.Equal(t, "read", OpRead.String())
}
