package nand

import (
	"fmt"
	"strings"
)

// microsecondsPerSecond converts device time units to seconds.
const microsecondsPerSecond = 1_000_000

// Stats is a read-only snapshot of a device's statistics.
// Ratios whose denominator is zero are NaN; see IsUndefined.
type Stats struct {
	ElapsedTime   float64 // seconds
	IOPS          float64
	DataRate      float64 // host MiB/s
	Amplification float64
	FailureRate   float64 // percent

	HostWrites   int64
	HostReads    int64
	DiskWrites   int64
	DiskReads    int64
	BlocksErased int64
	FailedWrites int64

	EmptyPages int64
	DirtyPages int64
	InUsePages int64
}

// WriteAmplification is executed page writes divided by successful host writes.
func (d *Device) WriteAmplification() float64 {
	return ratio(float64(d.diskWrites), float64(d.hostWrites))
}

// FailureRate is failed writes as a percentage of executed page writes.
func (d *Device) FailureRate() float64 {
	return ratio(float64(d.failedWrites*100), float64(d.diskWrites))
}

// ElapsedSeconds returns the accumulated operation latency in seconds.
func (d *Device) ElapsedSeconds() float64 {
	return float64(d.elapsed) / microsecondsPerSecond
}

// IOPS is executed page reads and writes per elapsed second.
func (d *Device) IOPS() float64 {
	return ratio(float64(d.diskWrites+d.diskReads), d.ElapsedSeconds())
}

// HostDataRate is host-requested MiB per elapsed second.
func (d *Device) HostDataRate() float64 {
	mib := PagesToMiB(d.hostWrites+d.hostReads, int64(d.geometry.PageSize))
	return ratio(mib, d.ElapsedSeconds())
}

// EmptyPages sums the empty counters of every block.
func (d *Device) EmptyPages() int64 {
	var total int64
	for b := range d.blocks {
		total += int64(d.blocks[b].empty)
	}
	return total
}

// DirtyPages sums the dirty counters of every block.
func (d *Device) DirtyPages() int64 {
	var total int64
	for b := range d.blocks {
		total += int64(d.blocks[b].dirty)
	}
	return total
}

// InUsePages is every page that is neither empty nor dirty.
func (d *Device) InUsePages() int64 {
	return d.geometry.TotalPages() - d.EmptyPages() - d.DirtyPages()
}

// HostWrites returns the number of successful host write requests.
func (d *Device) HostWrites() int64 { return d.hostWrites }

// HostReads returns the number of host reads that returned data.
func (d *Device) HostReads() int64 { return d.hostReads }

// DiskWrites returns the number of executed page writes.
func (d *Device) DiskWrites() int64 { return d.diskWrites }

// DiskReads returns the number of executed page reads.
func (d *Device) DiskReads() int64 { return d.diskReads }

// FailedWrites returns the number of writes no placement was found for.
func (d *Device) FailedWrites() int64 { return d.failedWrites }

// BlocksErased returns the number of executed block erases.
func (d *Device) BlocksErased() int64 { return d.erases }

// Snapshot returns the statistics at this moment.
func (d *Device) Snapshot() Stats {
	empty, dirty := d.EmptyPages(), d.DirtyPages()
	return Stats{
		ElapsedTime:   d.ElapsedSeconds(),
		IOPS:          d.IOPS(),
		DataRate:      d.HostDataRate(),
		Amplification: d.WriteAmplification(),
		FailureRate:   d.FailureRate(),
		HostWrites:    d.hostWrites,
		HostReads:     d.hostReads,
		DiskWrites:    d.diskWrites,
		DiskReads:     d.diskReads,
		BlocksErased:  d.erases,
		FailedWrites:  d.failedWrites,
		EmptyPages:    empty,
		DirtyPages:    dirty,
		InUsePages:    d.geometry.TotalPages() - empty - dirty,
	}
}

// formatStat prints a quantized value, or n/a when it is undefined.
func formatStat(v float64, places int) string {
	if IsUndefined(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", places, Quantize(v, places))
}

// String renders the human-readable summary of the device.
func (d *Device) String() string {
	g := d.geometry
	s := d.Snapshot()
	ps := int64(g.PageSize)
	mib := func(pages int64) string { return formatStat(PagesToMiB(pages, ps), DisplayPlaces) }

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d pages per block, %d blocks, %d pages of %d [Bytes]. Capacity %s [MiB]\n",
		g.PagesPerBlock, g.TotalBlocks, g.TotalPages(), g.PageSize, formatStat(BytesToMiB(g.Capacity()), DisplayPlaces))
	fmt.Fprintf(&sb, "Dirty: %d/%s ([pages]/[MiB])\n", s.DirtyPages, mib(s.DirtyPages))
	fmt.Fprintf(&sb, "Empty: %d/%s ([pages]/[MiB])\n", s.EmptyPages, mib(s.EmptyPages))
	fmt.Fprintf(&sb, "In Use: %d/%s ([pages]/[MiB])\n", s.InUsePages, mib(s.InUsePages))
	fmt.Fprintf(&sb, "Host read: %d/%s, write: %d/%s ([pages]/[MiB])\n",
		s.HostReads, mib(s.HostReads), s.HostWrites, mib(s.HostWrites))
	fmt.Fprintf(&sb, "Disk read: %d/%s, write: %d/%s ([pages]/[MiB])\n",
		s.DiskReads, mib(s.DiskReads), s.DiskWrites, mib(s.DiskWrites))
	fmt.Fprintf(&sb, "Erased blocks: %d/%s ([blocks]/[MiB])\n",
		s.BlocksErased, formatStat(BytesToMiB(s.BlocksErased*g.BlockSize()), DisplayPlaces))
	fmt.Fprintf(&sb, "Failure rate: %s %% (%d [pages], %s [MiB])\n",
		formatStat(s.FailureRate, DisplayPlaces), s.FailedWrites, mib(s.FailedWrites))
	fmt.Fprintf(&sb, "Time: %s [s]\t IOPS: %s\t Datarate: %s [MiB/s]\n",
		formatStat(s.ElapsedTime, DisplayPlaces), formatStat(s.IOPS, 0), formatStat(s.DataRate, DisplayPlaces))
	fmt.Fprintf(&sb, "Write Amplification: %s\n", formatStat(s.Amplification, DisplayPlaces))
	return sb.String()
}
