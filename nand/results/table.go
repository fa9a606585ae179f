package results

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/waf-sim/waf-sim/nand"
	"github.com/waf-sim/waf-sim/nand/experiment"
)

// comparisonHeaders are the columns of PrintComparison.
var comparisonHeaders = []string{
	"disk", "policy", "gc", "time [s]", "iops", "datarate [MiB/s]", "amplification",
	"host write", "disk write", "erased", "failures", "failure %",
}

func stat(v float64, places int) string {
	if nand.IsUndefined(v) {
		return "n/a"
	}
	return strconv.FormatFloat(nand.Quantize(v, places), 'f', places, 64)
}

// ComparisonRows returns one row per disk with its final statistics.
func ComparisonRows(res *experiment.Result) [][]string {
	rows := make([][]string, 0, len(res.Disks))
	for _, d := range res.Disks {
		f := d.Final
		gc := string(d.Config.GarbageCollector)
		if d.Config.GarbageCollector == nand.GarbageCollectorSimple {
			p := d.Config.GCParams()
			gc += " (" + strconv.FormatInt(p.MinTimeBetweenRuns, 10) + "µs, " +
				strconv.FormatFloat(p.DirtinessThreshold, 'f', -1, 64) + ")"
		}
		rows = append(rows, []string{
			d.Name,
			string(d.Config.WritePolicy),
			gc,
			stat(f.ElapsedTime, 3),
			stat(f.IOPS, 0),
			stat(f.DataRate, 3),
			stat(f.Amplification, 3),
			strconv.FormatInt(f.HostWrites, 10),
			strconv.FormatInt(f.DiskWrites, 10),
			strconv.FormatInt(f.BlocksErased, 10),
			strconv.FormatInt(f.FailedWrites, 10),
			stat(f.FailureRate, 3),
		})
	}
	return rows
}

// PrintComparison writes the final statistics of every disk as a table.
func PrintComparison(w io.Writer, res *experiment.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(comparisonHeaders)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	table.AppendBulk(ComparisonRows(res))
	table.Render()
}
