// Package nand provides the flash-translation-layer simulation engine for waf-sim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - page.go: page states (Empty → InUse → Dirty → Empty) and the per-block counters
//   - device.go: the Device, its raw write/read/erase primitives and the host operations
//   - write_policy.go: what happens when an overwrite targets a full block
//   - gc.go: when and how dirty blocks are reclaimed
//   - disk.go: a Device composed with one WritePolicy and one GarbageCollector
//
// # Architecture
//
// The Device is the only owner of block and page state. Strategies never hold a
// reference to it; they receive the Controller interface on every call and mutate
// the device exclusively through it:
//   - WritePolicy: invoked by RawWritePage when an InUse page is overwritten in a full block
//   - GarbageCollector: invoked by Disk after every host write attempt
//
// Implementations are selected by name through NewWritePolicy and
// NewGarbageCollector; the valid names live in ValidWritePolicies and
// ValidGarbageCollectors.
//
// # Time
//
// Elapsed time is the sum of fixed per-operation costs in microseconds. Nothing
// in this package reads the wall clock, so two disks fed the same request sequence
// with the same configuration produce bit-identical statistics.
package nand
