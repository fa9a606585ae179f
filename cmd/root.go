package cmd

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// envPrefix namespaces environment overrides, e.g. WAFSIM_SEED.
const envPrefix = "WAFSIM"

// envKeyReplacer maps a flag named sample-every to WAFSIM_SAMPLE_EVERY.
var envKeyReplacer = strings.NewReplacer("-", "_")

var logLevel string // Log verbosity level

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "waf-sim",
	Short: "NAND flash write-amplification simulator",
	Long: `waf-sim models how host writes turn into page writes and block erases on a
simulated NAND device, and compares write policies and garbage collectors.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(describeCmd)
}
