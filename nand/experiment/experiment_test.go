package experiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waf-sim/waf-sim/nand"
	"github.com/waf-sim/waf-sim/nand/internal/testutil"
	"github.com/waf-sim/waf-sim/nand/workload"
)

func smallSpec(disks ...DiskSpec) Spec {
	return Spec{
		Name:        "small",
		Seed:        42,
		Requests:    3000,
		SampleEvery: 100,
		Workload:    workload.Spec{Distribution: workload.DistributionUniform},
		Disks:       disks,
	}
}

func named(name string, cfg nand.DiskConfig) DiskSpec {
	return DiskSpec{Name: name, DiskConfig: cfg}
}

func TestNew_RejectsInvalidSpec(t *testing.T) {
	_, err := New(Spec{Name: "x"})
	assert.ErrorIs(t, err, nand.ErrInvalidConfig)
}

func TestRun_IdenticalDisksProduceIdenticalSeries(t *testing.T) {
	// GIVEN two identically configured disks
	cfg := testutil.SmallDisk(16, 16, nand.WritePolicyDefault, nand.GarbageCollectorSimple)
	exp, err := New(smallSpec(named("a", cfg), named("b", cfg)))
	require.NoError(t, err)

	// WHEN the experiment runs
	res, err := exp.Run(context.Background())

	// THEN both disks saw the same requests and report the same series
	require.NoError(t, err)
	require.Len(t, res.Disks, 2)
	assert.Equal(t, "a", res.Disks[0].Name)
	assert.Equal(t, "b", res.Disks[1].Name)
	assert.Equal(t, res.Disks[0].Final.DiskWrites, res.Disks[1].Final.DiskWrites)
	assert.Equal(t, res.Disks[0].Final.BlocksErased, res.Disks[1].Final.BlocksErased)
	assert.Equal(t, len(res.Disks[0].Samples), len(res.Disks[1].Samples))
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, int64(42), res.Seed)
}

func TestRun_SameSeedIsReproducible(t *testing.T) {
	cfg := testutil.SmallDisk(8, 8, nand.WritePolicyInPlaceNoErase, nand.GarbageCollectorSimple)
	spec := smallSpec(named("d", cfg))

	run := func() DiskResult {
		exp, err := New(spec)
		require.NoError(t, err)
		res, err := exp.Run(context.Background())
		require.NoError(t, err)
		return res.Disks[0]
	}
	a, b := run(), run()

	assert.Equal(t, a.Final.DiskWrites, b.Final.DiskWrites)
	assert.Equal(t, a.Final.FailedWrites, b.Final.FailedWrites)
	assert.Equal(t, a.Summary, b.Summary)
}

func TestRun_HostWriteSampling(t *testing.T) {
	// GIVEN a sequential write-only workload that never overwrites
	cfg := testutil.SmallDisk(8, 8, nand.WritePolicyDefault, nand.GarbageCollectorNone)
	spec := smallSpec(named("seq", cfg))
	spec.Workload = workload.Spec{Distribution: workload.DistributionSequential}
	spec.Requests = 55
	spec.SampleEvery = 10

	exp, err := New(spec)
	require.NoError(t, err)
	res, err := exp.Run(context.Background())
	require.NoError(t, err)

	// THEN one sample per 10 host writes plus the final one
	samples := res.Disks[0].Samples
	require.Len(t, samples, 6)
	for i, s := range samples[:5] {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, int64(10*(i+1)), s.HostWrites)
		assert.InDelta(t, 1.0, s.Amplification, 1e-12)
	}
	assert.Equal(t, int64(55), samples[5].HostWrites)
}

func TestRun_RequestSamplingCountsEveryRequest(t *testing.T) {
	// GIVEN a single-block disk where most writes fail once it fills up
	cfg := testutil.SmallDisk(1, 4, nand.WritePolicyDefault, nand.GarbageCollectorNone)
	spec := smallSpec(named("tiny", cfg))
	spec.Requests = 40
	spec.SampleEvery = 10
	spec.Sampling = SamplingRequest

	exp, err := New(spec)
	require.NoError(t, err)
	res, err := exp.Run(context.Background())
	require.NoError(t, err)

	// THEN sampling does not depend on write success
	assert.Len(t, res.Disks[0].Samples, 4)
	assert.Greater(t, res.Disks[0].Final.FailedWrites, int64(0))
}

func TestRun_TraceSummary(t *testing.T) {
	cfg := testutil.SmallDisk(8, 8, nand.WritePolicyInPlace, nand.GarbageCollectorSimple)
	spec := smallSpec(named("traced", cfg))
	spec.Trace = "decisions"

	exp, err := New(spec)
	require.NoError(t, err)
	res, err := exp.Run(context.Background())
	require.NoError(t, err)

	sum := res.Disks[0].Trace
	require.NotNil(t, sum)
	assert.Greater(t, sum.Relocations, 0)
	assert.Zero(t, sum.FailedRelocations, "in-place never fails")
}

func TestRun_CancelledContext(t *testing.T) {
	cfg := testutil.SmallDisk(8, 8, nand.WritePolicyDefault, nand.GarbageCollectorNone)
	exp, err := New(smallSpec(named("a", cfg)))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = exp.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSampler_Errors(t *testing.T) {
	_, err := NewSampler(SamplingRequest, 0)
	assert.ErrorIs(t, err, nand.ErrInvalidConfig)
	_, err = NewSampler("time", 10)
	assert.ErrorIs(t, err, nand.ErrInvalidConfig)
}
