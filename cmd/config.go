package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/waf-sim/waf-sim/nand"
	"github.com/waf-sim/waf-sim/nand/experiment"
)

// addSpecFlags registers the flags that select and override an experiment.
func addSpecFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Experiment YAML file (overrides --preset)")
	fs.String("disk-config", "", "Disk YAML file; runs that single disk (overrides --config and --preset)")
	fs.String("preset", "demo", fmt.Sprintf("Built-in experiment %v", experiment.PresetNames()))
	fs.Int64("seed", 42, "Seed for the host workload")
	fs.Int64("requests", 0, "Host requests per disk (0 keeps the experiment value)")
	fs.Int64("sample-every", 0, "Sample interval (0 keeps the experiment value)")
	fs.String("trace", "", "Decision trace level (none, decisions)")
}

// loadSpec resolves the experiment from --disk-config, --config or --preset, then applies
// any flag or WAFSIM_* environment override that was explicitly set.
func loadSpec(v *viper.Viper) (*experiment.Spec, error) {
	var (
		spec *experiment.Spec
		err  error
	)
	switch {
	case v.GetString("disk-config") != "":
		spec, err = singleDiskSpec(v.GetString("disk-config"))
	case v.GetString("config") != "":
		spec, err = experiment.LoadSpec(v.GetString("config"))
	default:
		spec, err = experiment.Preset(v.GetString("preset"))
	}
	if err != nil {
		return nil, err
	}

	if v.IsSet("seed") {
		spec.Seed = v.GetInt64("seed")
	}
	if n := v.GetInt64("requests"); n > 0 {
		spec.Requests = n
	}
	if n := v.GetInt64("sample-every"); n > 0 {
		spec.SampleEvery = n
	}
	if level := v.GetString("trace"); level != "" {
		spec.Trace = level
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// singleDiskSpec wraps one disk description in an experiment named after the file.
func singleDiskSpec(path string) (*experiment.Spec, error) {
	cfg, err := nand.LoadDiskConfig(path)
	if err != nil {
		return nil, err
	}
	spec := experiment.SingleDisk(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), cfg)
	return &spec, nil
}

// bindFlags returns a viper instance reading fs with environment fallback.
func bindFlags(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	return v, nil
}
