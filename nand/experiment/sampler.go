package experiment

import (
	"fmt"

	"github.com/waf-sim/waf-sim/nand"
)

// Sampler decides when a disk's statistics are recorded.
type Sampler struct {
	sampling Sampling
	every    int64

	requests    int64 // requests observed
	lastWrites  int64 // host writes at the last host-write sample
	lastSampled int64 // requests observed at the last sample, -1 if none
	samples     []Sample
}

// NewSampler creates a sampler that records every `every` units of sampling.
func NewSampler(sampling Sampling, every int64) (*Sampler, error) {
	if every <= 0 {
		return nil, fmt.Errorf("%w: sample interval must be > 0, got %d", nand.ErrInvalidConfig, every)
	}
	switch sampling {
	case "", SamplingHostWrite:
		sampling = SamplingHostWrite
	case SamplingRequest:
	default:
		return nil, fmt.Errorf("%w: unknown sampling %q", nand.ErrInvalidConfig, sampling)
	}
	return &Sampler{sampling: sampling, every: every, lastSampled: -1}, nil
}

// Observe is called after every request issued to disk.
func (s *Sampler) Observe(disk *nand.Disk) {
	s.requests++
	switch s.sampling {
	case SamplingRequest:
		if s.requests%s.every == 0 {
			s.take(disk)
		}
	default:
		writes := disk.Device().HostWrites()
		if writes != s.lastWrites && writes%s.every == 0 {
			s.lastWrites = writes
			s.take(disk)
		}
	}
}

// Finish records a final sample unless the last request was already sampled.
func (s *Sampler) Finish(disk *nand.Disk) {
	if s.lastSampled != s.requests {
		s.take(disk)
	}
}

// Samples returns the recorded series.
func (s *Sampler) Samples() []Sample { return s.samples }

func (s *Sampler) take(disk *nand.Disk) {
	s.samples = append(s.samples, NewSample(len(s.samples), disk.Snapshot()))
	s.lastSampled = s.requests
}
