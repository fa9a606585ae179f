package experiment

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/waf-sim/waf-sim/nand"
	"github.com/waf-sim/waf-sim/nand/trace"
	"github.com/waf-sim/waf-sim/nand/workload"
)

// Sampling selects what advances the sample clock.
type Sampling string

const (
	// SamplingHostWrite takes a sample every SampleEvery successful host writes.
	SamplingHostWrite Sampling = "host-write"
	// SamplingRequest takes a sample every SampleEvery issued requests.
	SamplingRequest Sampling = "request"
)

// Spec is the top-level experiment configuration.
// Loaded from YAML via LoadSpec(path) or built from a preset.
type Spec struct {
	Name        string        `yaml:"name" validate:"required"`
	Seed        int64         `yaml:"seed"`
	Requests    int64         `yaml:"requests" validate:"gt=0"`
	SampleEvery int64         `yaml:"sample_every" validate:"gt=0"`
	Sampling    Sampling      `yaml:"sampling" validate:"omitempty,oneof=host-write request"`
	Trace       string        `yaml:"trace" validate:"trace_level"`
	Workload    workload.Spec `yaml:"workload"`
	Disks       []DiskSpec    `yaml:"disks" validate:"required,min=1,dive"`
}

// DiskSpec is one named disk. Geometry and timing fields left at zero take
// their nand.DefaultDiskConfig values.
type DiskSpec struct {
	Name            string `yaml:"name" validate:"required"`
	nand.DiskConfig `yaml:",inline"`
}

// ApplyDefaults fills unset fields. Zero is never a valid geometry or timing,
// so a zero field always means "not set".
func (s *Spec) ApplyDefaults() {
	if s.Sampling == "" {
		s.Sampling = SamplingHostWrite
	}
	if s.Trace == "" {
		s.Trace = string(trace.TraceLevelNone)
	}
	for i := range s.Disks {
		applyDiskDefaults(&s.Disks[i].DiskConfig)
	}
}

func applyDiskDefaults(cfg *nand.DiskConfig) {
	def := nand.DefaultDiskConfig()
	if cfg.TotalBlocks == 0 {
		cfg.TotalBlocks = def.TotalBlocks
	}
	if cfg.PagesPerBlock == 0 {
		cfg.PagesPerBlock = def.PagesPerBlock
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.WritePageTime == 0 {
		cfg.WritePageTime = def.WritePageTime
	}
	if cfg.ReadPageTime == 0 {
		cfg.ReadPageTime = def.ReadPageTime
	}
	if cfg.EraseBlockTime == 0 {
		cfg.EraseBlockTime = def.EraseBlockTime
	}
	if cfg.WritePolicy == "" {
		cfg.WritePolicy = def.WritePolicy
	}
	if cfg.GarbageCollector == "" {
		cfg.GarbageCollector = def.GarbageCollector
	}
}

// Validate checks every field, every disk, and that disk names are unique.
func (s *Spec) Validate() error {
	if err := nand.NewValidator().Struct(s); err != nil {
		return fmt.Errorf("%w: %s", nand.ErrInvalidConfig, nand.FormatValidationError(err))
	}
	seen := make(map[string]bool, len(s.Disks))
	for _, d := range s.Disks {
		if seen[d.Name] {
			return fmt.Errorf("%w: duplicate disk name %q", nand.ErrInvalidConfig, d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// LoadSpec reads and parses a YAML experiment file, applies defaults and
// validates it. Unknown fields are rejected.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading experiment spec: %w", err)
	}
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing experiment spec: %w", err)
	}
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}
