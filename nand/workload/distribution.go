package workload

import "math/rand"

// AddressSampler draws logical page numbers in [0, total).
type AddressSampler interface {
	Sample(rng *rand.Rand) int64
}

// UniformSampler draws every logical page with equal probability.
type UniformSampler struct {
	total int64
}

func (s *UniformSampler) Sample(rng *rand.Rand) int64 {
	return rng.Int63n(s.total)
}

// HotspotSampler sends a fixed share of requests to the first pages of the
// address space. With hotWeight 0.8 and hot 20% of total, it is the classic
// 80/20 skew.
type HotspotSampler struct {
	total     int64
	hot       int64 // size of the hot region, in [1, total]
	hotWeight float64
}

func (s *HotspotSampler) Sample(rng *rand.Rand) int64 {
	if s.hot >= s.total || rng.Float64() < s.hotWeight {
		return rng.Int63n(s.hot)
	}
	return s.hot + rng.Int63n(s.total-s.hot)
}

// SequentialSampler walks the address space in order and wraps around.
// It never consumes randomness.
type SequentialSampler struct {
	total int64
	next  int64
}

func (s *SequentialSampler) Sample(_ *rand.Rand) int64 {
	lpn := s.next
	s.next = (s.next + 1) % s.total
	return lpn
}
