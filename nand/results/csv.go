// Package results writes experiment output: per-disk CSV time series and text
// dumps, a comparison table, a SQLite store, and Prometheus gauges.
package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/waf-sim/waf-sim/nand/experiment"
)

// CSVHeader is the exact column order of a sample row.
var CSVHeader = []string{
	"sample_index", "time", "iops", "datarate", "amplification",
	"host_write", "host_read", "disk_write", "disk_read", "block_erased", "failures",
}

// formatFloat prints a statistic; undefined values print as "nan".
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Record returns the CSV fields of a sample in CSVHeader order.
func Record(s experiment.Sample) []string {
	return []string{
		strconv.Itoa(s.Index),
		formatFloat(s.Time),
		formatFloat(s.IOPS),
		formatFloat(s.DataRate),
		formatFloat(s.Amplification),
		strconv.FormatInt(s.HostWrites, 10),
		strconv.FormatInt(s.HostReads, 10),
		strconv.FormatInt(s.DiskWrites, 10),
		strconv.FormatInt(s.DiskReads, 10),
		strconv.FormatInt(s.BlocksErased, 10),
		strconv.FormatInt(s.FailedWrites, 10),
	}
}

// WriteCSV writes the header and one row per sample.
func WriteCSV(w io.Writer, samples []experiment.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, s := range samples {
		if err := cw.Write(Record(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRun writes <dir>/<run name>/<disk>.csv and <disk>.txt for every disk
// and returns the directory used.
func WriteRun(dir string, res *experiment.Result) (string, error) {
	out := filepath.Join(dir, res.Name)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	for _, d := range res.Disks {
		if err := writeFile(filepath.Join(out, d.Name+".csv"), func(w io.Writer) error {
			return WriteCSV(w, d.Samples)
		}); err != nil {
			return "", err
		}
		if err := writeFile(filepath.Join(out, d.Name+".txt"), func(w io.Writer) error {
			_, err := io.WriteString(w, d.Summary)
			return err
		}); err != nil {
			return "", err
		}
	}
	logrus.Infof("Wrote %d disk results to %s", len(res.Disks), out)
	return out, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
