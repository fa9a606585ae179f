package results

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/waf-sim/waf-sim/nand"
	"github.com/waf-sim/waf-sim/nand/experiment"
)

// Exporter exposes the final statistics of each disk as Prometheus gauges.
//
// All metrics use the wafsim_ prefix and carry a disk label. Undefined ratios
// are exported as NaN.
type Exporter struct {
	registry *prometheus.Registry

	Amplification *prometheus.GaugeVec
	IOPS          *prometheus.GaugeVec
	DataRate      *prometheus.GaugeVec
	ElapsedTime   *prometheus.GaugeVec
	Pages         *prometheus.GaugeVec // labelled by op: host_write, host_read, disk_write, disk_read, failed
	BlocksErased  *prometheus.GaugeVec
	PageStates    *prometheus.GaugeVec // labelled by state: empty, dirty, in_use
}

// NewExporter creates the gauges on a private registry.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		Amplification: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wafsim_write_amplification",
			Help: "Executed page writes per successful host write",
		}, []string{"disk"}),
		IOPS: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wafsim_iops",
			Help: "Executed page operations per second of device time",
		}, []string{"disk"}),
		DataRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wafsim_host_datarate_mib_per_second",
			Help: "Host MiB transferred per second of device time",
		}, []string{"disk"}),
		ElapsedTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wafsim_elapsed_seconds",
			Help: "Accumulated device operation time",
		}, []string{"disk"}),
		Pages: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wafsim_pages",
			Help: "Page operation counts by kind",
		}, []string{"disk", "op"}),
		BlocksErased: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wafsim_blocks_erased",
			Help: "Executed block erases",
		}, []string{"disk"}),
		PageStates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wafsim_page_states",
			Help: "Pages per state at the end of the run",
		}, []string{"disk", "state"}),
	}
	e.registry.MustRegister(e.Amplification, e.IOPS, e.DataRate, e.ElapsedTime,
		e.Pages, e.BlocksErased, e.PageStates)
	return e
}

// Registry returns the registry the gauges live on.
func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

// Observe sets every gauge of disk from s.
func (e *Exporter) Observe(disk string, s nand.Stats) {
	e.Amplification.WithLabelValues(disk).Set(s.Amplification)
	e.IOPS.WithLabelValues(disk).Set(s.IOPS)
	e.DataRate.WithLabelValues(disk).Set(s.DataRate)
	e.ElapsedTime.WithLabelValues(disk).Set(s.ElapsedTime)
	e.BlocksErased.WithLabelValues(disk).Set(float64(s.BlocksErased))

	e.Pages.WithLabelValues(disk, "host_write").Set(float64(s.HostWrites))
	e.Pages.WithLabelValues(disk, "host_read").Set(float64(s.HostReads))
	e.Pages.WithLabelValues(disk, "disk_write").Set(float64(s.DiskWrites))
	e.Pages.WithLabelValues(disk, "disk_read").Set(float64(s.DiskReads))
	e.Pages.WithLabelValues(disk, "failed").Set(float64(s.FailedWrites))

	e.PageStates.WithLabelValues(disk, "empty").Set(float64(s.EmptyPages))
	e.PageStates.WithLabelValues(disk, "dirty").Set(float64(s.DirtyPages))
	e.PageStates.WithLabelValues(disk, "in_use").Set(float64(s.InUsePages))
}

// ObserveResult observes the final statistics of every disk in res.
func (e *Exporter) ObserveResult(res *experiment.Result) {
	for _, d := range res.Disks {
		e.Observe(d.Name, d.Final)
	}
}

// WriteTextfile writes the gauges in the node_exporter textfile format.
func (e *Exporter) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, e.registry)
}
