// Package workload generates deterministic host request streams for a disk.
package workload

import (
	"fmt"
	"math"

	"github.com/waf-sim/waf-sim/nand"
)

// Distribution names an address distribution.
type Distribution string

const (
	DistributionUniform    Distribution = "uniform"
	DistributionHotspot    Distribution = "hotspot"
	DistributionSequential Distribution = "sequential"
)

const (
	// DefaultHotFraction is the share of the address space that is hot.
	DefaultHotFraction = 0.2
	// DefaultHotWeight is the share of requests that target the hot region.
	DefaultHotWeight = 0.8
)

// Spec describes a host workload. The zero value is a write-only uniform workload.
type Spec struct {
	Distribution Distribution `yaml:"distribution" validate:"omitempty,oneof=uniform hotspot sequential"`
	// ReadFraction is the probability that a request is a read.
	ReadFraction float64 `yaml:"read_fraction" validate:"gte=0,lte=1"`
	// HotFraction and HotWeight only apply to the hotspot distribution; zero
	// selects the defaults.
	HotFraction float64 `yaml:"hot_fraction" validate:"gte=0,lte=1"`
	HotWeight   float64 `yaml:"hot_weight" validate:"gte=0,lte=1"`
}

// Validate checks the distribution name and every fraction.
func (s Spec) Validate() error {
	if err := nand.NewValidator().Struct(s); err != nil {
		return fmt.Errorf("invalid workload: %s", nand.FormatValidationError(err))
	}
	return nil
}

// NewAddressSampler builds the sampler for spec over total logical pages.
func NewAddressSampler(spec Spec, total int64) (AddressSampler, error) {
	if total <= 0 {
		return nil, fmt.Errorf("address space must be positive, got %d", total)
	}
	switch spec.Distribution {
	case "", DistributionUniform:
		return &UniformSampler{total: total}, nil
	case DistributionHotspot:
		fraction, weight := spec.HotFraction, spec.HotWeight
		if fraction == 0 {
			fraction = DefaultHotFraction
		}
		if weight == 0 {
			weight = DefaultHotWeight
		}
		hot := int64(math.Ceil(fraction * float64(total)))
		hot = max(1, min(hot, total))
		return &HotspotSampler{total: total, hot: hot, hotWeight: weight}, nil
	case DistributionSequential:
		return &SequentialSampler{total: total}, nil
	default:
		return nil, fmt.Errorf("unknown distribution %q", spec.Distribution)
	}
}
