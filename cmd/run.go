package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/waf-sim/waf-sim/nand/experiment"
	"github.com/waf-sim/waf-sim/nand/results"
)

// runCmd executes an experiment and writes its results
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an experiment and write per-disk results",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := bindFlags(cmd.Flags())
		if err != nil {
			return err
		}
		spec, err := loadSpec(v)
		if err != nil {
			logrus.Fatalf("Invalid experiment: %v", err)
		}
		exp, err := experiment.New(*spec)
		if err != nil {
			logrus.Fatalf("Invalid experiment: %v", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		res, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		return writeResults(ctx, cmd.OutOrStdout(), res, v.GetString("out"), v.GetString("db"), v.GetString("metrics-textfile"))
	},
}

// writeResults sends a finished run to every configured sink.
func writeResults(ctx context.Context, w io.Writer, res *experiment.Result, outDir, dbPath, textfile string) error {
	if outDir != "" {
		if _, err := results.WriteRun(outDir, res); err != nil {
			return err
		}
	}

	if dbPath != "" {
		store, err := results.OpenStore(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveResult(ctx, res); err != nil {
			return err
		}
		logrus.Infof("Saved run %s to %s", res.RunID, dbPath)
	}

	if textfile != "" {
		exporter := results.NewExporter()
		exporter.ObserveResult(res)
		if err := exporter.WriteTextfile(textfile); err != nil {
			return err
		}
	}

	results.PrintComparison(w, res)
	for _, d := range res.Disks {
		if d.Trace == nil {
			continue
		}
		logrus.Infof("disk %s: %d relocations (%d failed), %d gc passes (%d idle), %d blocks reclaimed, %.2f live pages copied per reclaim",
			d.Name, d.Trace.Relocations, d.Trace.FailedRelocations, d.Trace.GCRuns, d.Trace.IdleGCRuns,
			d.Trace.ReclaimedBlocks, d.Trace.MeanLivePagesCopied)
	}
	return nil
}

func init() {
	addSpecFlags(runCmd.Flags())
	runCmd.Flags().String("out", "results", "Directory for per-disk CSV and text results (empty disables)")
	runCmd.Flags().String("db", "", "SQLite database to append the run to")
	runCmd.Flags().String("metrics-textfile", "", "Write final statistics as a Prometheus textfile")
}
