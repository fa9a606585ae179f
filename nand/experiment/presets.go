package experiment

import (
	"fmt"
	"sort"

	"github.com/waf-sim/waf-sim/nand"
)

// presets reproduce the reference experiments: strategy comparison, simple
// GC dirtiness and interval sweeps, geometry sweep at constant capacity, and
// capacity sweep.
var presets = map[string]func() Spec{
	"demo":              demoPreset,
	"simple-gc":         simpleGCPreset,
	"simple-gc-mintime": simpleGCMinTimePreset,
	"nand-parameters":   nandParametersPreset,
	"nand-size":         nandSizePreset,
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a validated copy of a named preset.
func Preset(name string) (*Spec, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (valid: %v)", name, PresetNames())
	}
	spec := build()
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// SingleDisk returns an experiment that runs one disk, named name, with the
// demo workload settings.
func SingleDisk(name string, cfg nand.DiskConfig) Spec {
	spec := Spec{
		Name:        name,
		Seed:        42,
		Requests:    100_000,
		SampleEvery: 1000,
		Sampling:    SamplingHostWrite,
		Disks:       []DiskSpec{{Name: name, DiskConfig: cfg}},
	}
	spec.ApplyDefaults()
	return spec
}

func disk(name string, wp nand.WritePolicyKind, gc nand.GarbageCollectorKind, params *nand.GCParams) DiskSpec {
	cfg := nand.DefaultDiskConfig()
	cfg.WritePolicy = wp
	cfg.GarbageCollector = gc
	cfg.GC = params
	return DiskSpec{Name: name, DiskConfig: cfg}
}

func demoPreset() Spec {
	return Spec{
		Name:        "demo",
		Seed:        42,
		Requests:    100_000,
		SampleEvery: 1000,
		Sampling:    SamplingHostWrite,
		Disks: []DiskSpec{
			disk("base", nand.WritePolicyDefault, nand.GarbageCollectorNone, nil),
			disk("basegc", nand.WritePolicyDefault, nand.GarbageCollectorSimple,
				&nand.GCParams{MinTimeBetweenRuns: 500, DirtinessThreshold: 0.1}),
			disk("wpgc", nand.WritePolicyInPlace, nand.GarbageCollectorSimple, nil),
			disk("wpnegc", nand.WritePolicyInPlaceNoErase, nand.GarbageCollectorSimple, nil),
		},
	}
}

func simpleGCPreset() Spec {
	spec := Spec{
		Name:        "simple_gc_test",
		Seed:        42,
		Requests:    100_000,
		SampleEvery: 1000,
		Sampling:    SamplingHostWrite,
	}
	for _, d := range []struct {
		name      string
		dirtiness float64
	}{
		{"d10", 0.1}, {"d30", 0.3}, {"d40", 0.4}, {"d50", 0.5}, {"d90", 0.9}, {"d100", 1.0},
	} {
		spec.Disks = append(spec.Disks, disk(d.name, nand.WritePolicyDefault, nand.GarbageCollectorSimple,
			&nand.GCParams{MinTimeBetweenRuns: 500, DirtinessThreshold: d.dirtiness}))
	}
	return spec
}

func nandParametersPreset() Spec {
	spec := Spec{
		Name:        "nand_parameters_test",
		Seed:        42,
		Requests:    100_000,
		SampleEvery: 1000,
		Sampling:    SamplingHostWrite,
	}
	// Every geometry is 128 MiB of 4 KiB pages.
	for _, g := range []struct{ blocks, pages int }{
		{2, 16384}, {16, 2048}, {32, 1024}, {64, 512}, {128, 256}, {256, 128}, {512, 64}, {1024, 32},
	} {
		d := disk(fmt.Sprintf("%dx%d", g.blocks, g.pages), nand.WritePolicyDefault, nand.GarbageCollectorSimple, nil)
		d.TotalBlocks, d.PagesPerBlock = g.blocks, g.pages
		spec.Disks = append(spec.Disks, d)
	}
	return spec
}

// simpleGCMinTimePreset varies the time between collector passes at a fixed
// dirtiness threshold of 0.4.
func simpleGCMinTimePreset() Spec {
	spec := Spec{
		Name:        "simple_gc_test_1",
		Seed:        42,
		Requests:    100_000,
		SampleEvery: 1000,
		Sampling:    SamplingHostWrite,
	}
	for _, minTime := range []int64{1, 500, 5000, 50_000, 500_000, 5_000_000} {
		spec.Disks = append(spec.Disks, disk(fmt.Sprintf("t%d", minTime), nand.WritePolicyDefault, nand.GarbageCollectorSimple,
			&nand.GCParams{MinTimeBetweenRuns: minTime, DirtinessThreshold: 0.4}))
	}
	return spec
}

// nandSizePreset grows the device, always with twice as many blocks as pages
// per block.
func nandSizePreset() Spec {
	spec := Spec{
		Name:        "nand_size_test",
		Seed:        42,
		Requests:    1_000_000,
		SampleEvery: 10_000,
		Sampling:    SamplingHostWrite,
	}
	for _, g := range []struct {
		name          string
		blocks, pages int
	}{
		{"256M", 256, 128}, {"512M", 512, 256}, {"2G", 1024, 512}, {"8G", 2048, 1024},
	} {
		d := disk(g.name, nand.WritePolicyDefault, nand.GarbageCollectorSimple, nil)
		d.TotalBlocks, d.PagesPerBlock = g.blocks, g.pages
		spec.Disks = append(spec.Disks, d)
	}
	return spec
}
