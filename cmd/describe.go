package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/waf-sim/waf-sim/nand"
)

// describeCmd prints the configuration of every disk in an experiment
var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the geometry and strategies of each disk without running",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := bindFlags(cmd.Flags())
		if err != nil {
			return err
		}
		spec, err := loadSpec(v)
		if err != nil {
			logrus.Fatalf("Invalid experiment: %v", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Experiment %s: %d requests per disk, seed %d, sampling %s every %d\n\n",
			spec.Name, spec.Requests, spec.Seed, spec.Sampling, spec.SampleEvery)
		for _, ds := range spec.Disks {
			disk, err := nand.NewDisk(ds.DiskConfig)
			if err != nil {
				return fmt.Errorf("disk %q: %w", ds.Name, err)
			}
			fmt.Fprintf(out, "== %s\n%s\n", ds.Name, disk)
		}
		return nil
	},
}

func init() {
	addSpecFlags(describeCmd.Flags())
}
