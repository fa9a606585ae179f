package nand

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/waf-sim/waf-sim/nand/trace"
)

// DiskConfig fully describes a simulated disk: geometry, timings, and the
// strategy pair with its parameters. Loadable from YAML.
type DiskConfig struct {
	TotalBlocks   int `yaml:"total_blocks" validate:"gt=0"`
	PagesPerBlock int `yaml:"pages_per_block" validate:"gt=0"`
	PageSize      int `yaml:"page_size" validate:"gt=0"` // bytes

	// Operation costs in microseconds.
	WritePageTime  int64 `yaml:"write_page_time" validate:"gt=0"`
	ReadPageTime   int64 `yaml:"read_page_time" validate:"gt=0"`
	EraseBlockTime int64 `yaml:"erase_block_time" validate:"gt=0"`

	WritePolicy      WritePolicyKind      `yaml:"write_policy" validate:"write_policy"`
	GarbageCollector GarbageCollectorKind `yaml:"garbage_collector" validate:"garbage_collector"`
	// GC is only read by the simple collector; nil means DefaultGCParams.
	GC *GCParams `yaml:"gc,omitempty"`
}

// DefaultDiskConfig returns a 128 MiB disk: 256 blocks of 128 pages of 4 KiB,
// 40µs page write, 20µs page read, 1.5ms block erase, default write policy and
// no garbage collector.
func DefaultDiskConfig() DiskConfig {
	return DiskConfig{
		TotalBlocks:      256,
		PagesPerBlock:    128,
		PageSize:         4096,
		WritePageTime:    40,
		ReadPageTime:     20,
		EraseBlockTime:   1500,
		WritePolicy:      WritePolicyDefault,
		GarbageCollector: GarbageCollectorNone,
	}
}

// Geometry returns the physical layout described by the config.
func (c DiskConfig) Geometry() Geometry {
	return Geometry{TotalBlocks: c.TotalBlocks, PagesPerBlock: c.PagesPerBlock, PageSize: c.PageSize}
}

// Timing returns the operation costs described by the config.
func (c DiskConfig) Timing() Timing {
	return Timing{WritePage: c.WritePageTime, ReadPage: c.ReadPageTime, EraseBlock: c.EraseBlockTime}
}

// GCParams returns the configured collector parameters, or the defaults.
func (c DiskConfig) GCParams() GCParams {
	if c.GC == nil {
		return DefaultGCParams()
	}
	return *c.GC
}

// Validate checks every parameter range and strategy name.
// The returned error wraps ErrInvalidConfig.
func (c DiskConfig) Validate() error {
	if err := NewValidator().Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, FormatValidationError(err))
	}
	return nil
}

// LoadDiskConfig reads a YAML disk description. Fields not present in the
// file keep their DefaultDiskConfig values; unknown fields are rejected.
func LoadDiskConfig(path string) (DiskConfig, error) {
	cfg := DefaultDiskConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading disk config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing disk config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// NewValidator returns a validator that reports fields by their yaml name and
// knows the write_policy, garbage_collector and trace_level rules.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("write_policy", func(fl validator.FieldLevel) bool {
		return IsValidWritePolicy(fl.Field().String())
	})
	_ = v.RegisterValidation("garbage_collector", func(fl validator.FieldLevel) bool {
		return IsValidGarbageCollector(fl.Field().String())
	})
	_ = v.RegisterValidation("trace_level", func(fl validator.FieldLevel) bool {
		return trace.IsValidTraceLevel(fl.Field().String())
	})
	return v
}

// FormatValidationError turns validator errors into one readable line.
func FormatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be > %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "write_policy", "garbage_collector", "trace_level":
		return fmt.Sprintf("unknown %s %q", fe.Tag(), fe.Value())
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Namespace(), fe.Tag())
	}
}
