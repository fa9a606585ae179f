// Package experiment drives one or more simulated disks with the same host
// workload and samples their statistics over time.
//
// Every disk runs on its own goroutine. Disks share nothing, so no
// synchronization is needed; requests against a single disk stay strictly
// ordered.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/waf-sim/waf-sim/nand"
	"github.com/waf-sim/waf-sim/nand/trace"
	"github.com/waf-sim/waf-sim/nand/workload"
)

// cancelCheckInterval is how many requests run between context checks.
const cancelCheckInterval = 1024

// Sample is one row of a disk's time series, in CSV column order.
type Sample struct {
	Index         int
	Time          float64 // seconds of device time
	IOPS          float64
	DataRate      float64
	Amplification float64
	HostWrites    int64
	HostReads     int64
	DiskWrites    int64
	DiskReads     int64
	BlocksErased  int64
	FailedWrites  int64
}

// NewSample builds the sample with the given index from a stats snapshot.
func NewSample(index int, s nand.Stats) Sample {
	return Sample{
		Index:         index,
		Time:          s.ElapsedTime,
		IOPS:          s.IOPS,
		DataRate:      s.DataRate,
		Amplification: s.Amplification,
		HostWrites:    s.HostWrites,
		HostReads:     s.HostReads,
		DiskWrites:    s.DiskWrites,
		DiskReads:     s.DiskReads,
		BlocksErased:  s.BlocksErased,
		FailedWrites:  s.FailedWrites,
	}
}

// DiskResult is everything one disk produced.
type DiskResult struct {
	Name    string
	Config  nand.DiskConfig
	Samples []Sample
	Final   nand.Stats
	Summary string              // human-readable dump at the end of the run
	Trace   *trace.TraceSummary // nil unless tracing was enabled
}

// Result is the outcome of a run. Disks are in spec order.
type Result struct {
	RunID     string
	Name      string
	Seed      int64
	StartedAt time.Time
	Duration  time.Duration // wall clock
	Disks     []DiskResult
}

// Experiment is a validated spec ready to run.
type Experiment struct {
	spec Spec
}

// New validates spec and returns an experiment. Disk construction errors
// surface here rather than halfway through a run.
func New(spec Spec) (*Experiment, error) {
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if _, err := NewSampler(spec.Sampling, spec.SampleEvery); err != nil {
		return nil, err
	}
	for _, d := range spec.Disks {
		if _, err := workload.NewAddressSampler(spec.Workload, d.Geometry().TotalPages()); err != nil {
			return nil, fmt.Errorf("disk %q: %w", d.Name, err)
		}
	}
	return &Experiment{spec: spec}, nil
}

// Spec returns the experiment configuration with defaults applied.
func (e *Experiment) Spec() Spec { return e.spec }

// Run builds fresh disks and drives them in parallel until every disk has
// served Requests host requests. Each disk receives the same request stream
// for its geometry.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	result := &Result{
		RunID:     uuid.NewString(),
		Name:      e.spec.Name,
		Seed:      e.spec.Seed,
		StartedAt: started,
		Disks:     make([]DiskResult, len(e.spec.Disks)),
	}
	logrus.Infof("Starting experiment %q (run %s) with %d disks, %d requests each, seed=%d",
		e.spec.Name, result.RunID, len(e.spec.Disks), e.spec.Requests, e.spec.Seed)

	g, ctx := errgroup.WithContext(ctx)
	for i, ds := range e.spec.Disks {
		i, ds := i, ds
		g.Go(func() error {
			res, err := e.runDisk(ctx, ds, nand.NewStreams(e.spec.Seed))
			if err != nil {
				return fmt.Errorf("disk %q: %w", ds.Name, err)
			}
			result.Disks[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Duration = time.Since(started)
	logrus.Infof("Experiment %q complete in %v", e.spec.Name, result.Duration)
	return result, nil
}

// runDisk drives a single disk. It owns the disk, the generator and its
// random streams exclusively.
func (e *Experiment) runDisk(ctx context.Context, ds DiskSpec, streams *nand.Streams) (DiskResult, error) {
	disk, err := nand.NewDisk(ds.DiskConfig)
	if err != nil {
		return DiskResult{}, err
	}
	disk.EnableTrace(trace.Config{Level: trace.TraceLevel(e.spec.Trace)})

	gen, err := workload.NewGenerator(e.spec.Workload, disk.Device().Geometry(), streams)
	if err != nil {
		return DiskResult{}, err
	}
	sampler, err := NewSampler(e.spec.Sampling, e.spec.SampleEvery)
	if err != nil {
		return DiskResult{}, err
	}

	progressStep := max(e.spec.Requests/4, 1)
	for i := int64(0); i < e.spec.Requests; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return DiskResult{}, err
			}
		}

		req := gen.Next()
		switch req.Op {
		case workload.OpRead:
			if _, err := disk.HostReadPage(req.Block, req.Page); err != nil {
				return DiskResult{}, err
			}
		default:
			if _, err := disk.HostWritePage(req.Block, req.Page); err != nil {
				return DiskResult{}, err
			}
		}
		sampler.Observe(disk)

		if (i+1)%progressStep == 0 {
			logrus.Debugf("disk %s: %d/%d requests, amplification %.3f",
				ds.Name, i+1, e.spec.Requests, disk.Device().WriteAmplification())
		}
	}
	sampler.Finish(disk)

	res := DiskResult{
		Name:    ds.Name,
		Config:  ds.DiskConfig,
		Samples: sampler.Samples(),
		Final:   disk.Snapshot(),
		Summary: disk.String(),
	}
	if st := disk.Trace(); st != nil {
		res.Trace = trace.Summarize(st)
	}
	return res, nil
}
