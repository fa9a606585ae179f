package nand

import (
	"fmt"

	"github.com/waf-sim/waf-sim/nand/trace"
)

// Disk is a Device composed with one WritePolicy and one GarbageCollector,
// fixed at construction. It is the unit a simulation driver talks to.
type Disk struct {
	config DiskConfig
	device *Device
	gc     GarbageCollector
}

// NewDisk validates cfg and assembles the disk. Errors wrap ErrInvalidConfig.
func NewDisk(cfg DiskConfig) (*Disk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	device, err := NewDevice(cfg.Geometry(), cfg.Timing(), NewWritePolicy(cfg.WritePolicy))
	if err != nil {
		return nil, err
	}
	return &Disk{
		config: cfg,
		device: device,
		gc:     NewGarbageCollector(cfg.GarbageCollector, cfg.GCParams()),
	}, nil
}

// Config returns the configuration the disk was built from.
func (d *Disk) Config() DiskConfig { return d.config }

// Device exposes the underlying FTL for inspection.
func (d *Disk) Device() *Device { return d.device }

// GarbageCollector returns the bound collector.
func (d *Disk) GarbageCollector() GarbageCollector { return d.gc }

// HostWritePage writes a page on behalf of the host and then gives the
// garbage collector a chance to run, whether or not the write succeeded.
// Index errors are returned before anything runs.
func (d *Disk) HostWritePage(block, page int) (bool, error) {
	ok, err := d.device.HostWritePage(block, page)
	if err != nil {
		return false, err
	}
	if _, err := d.gc.MaybeRun(d.device); err != nil {
		return ok, fmt.Errorf("garbage collector %s: %w", d.gc.Name(), err)
	}
	return ok, nil
}

// HostReadPage reads a page on behalf of the host.
func (d *Disk) HostReadPage(block, page int) (bool, error) {
	return d.device.HostReadPage(block, page)
}

// Snapshot returns the device statistics at this moment.
func (d *Disk) Snapshot() Stats { return d.device.Snapshot() }

// EnableTrace starts recording policy and GC decisions. A config with level
// none detaches any existing trace.
func (d *Disk) EnableTrace(cfg trace.Config) {
	if !cfg.Enabled() {
		d.device.SetTrace(nil)
		return
	}
	d.device.SetTrace(trace.NewSimulationTrace(cfg))
}

// Trace returns the recorded decisions, or nil.
func (d *Disk) Trace() *trace.SimulationTrace { return d.device.Trace() }

// String renders the strategy pair followed by the device summary.
func (d *Disk) String() string {
	return fmt.Sprintf("Write policy: %s, garbage collector: %s\n%s",
		d.device.WritePolicy().Name(), d.gc.Name(), d.device.String())
}
