package nand

import (
	"hash/fnv"
	"math/rand"
)

// Named random streams. Each consumer of randomness draws from its own
// stream so that adding draws to one never shifts the values of another.
const (
	// StreamAddresses picks the logical page of every host request. It is
	// seeded with the experiment seed itself.
	StreamAddresses = "addresses"
	// StreamReadMix decides whether a host request is a read or a write.
	StreamReadMix = "readmix"
)

// Streams derives one reproducible *rand.Rand per stream name from a
// single experiment seed. The same seed and name always yield the same
// sequence.
//
// Thread-safety: NOT thread-safe. Give every goroutine its own Streams.
type Streams struct {
	seed    int64
	sources map[string]*rand.Rand
}

// NewStreams creates the streams for seed.
func NewStreams(seed int64) *Streams {
	return &Streams{seed: seed, sources: make(map[string]*rand.Rand)}
}

// Source returns the stream called name, creating it on first use.
// Repeated calls return the same *rand.Rand.
func (s *Streams) Source(name string) *rand.Rand {
	src, ok := s.sources[name]
	if !ok {
		src = rand.New(rand.NewSource(streamSeed(s.seed, name)))
		s.sources[name] = src
	}
	return src
}

// streamSeed mixes the stream name into seed. StreamAddresses keeps the
// bare seed.
func streamSeed(seed int64, name string) int64 {
	if name == StreamAddresses {
		return seed
	}
	h := fnv.New64a()
	h.Write([]byte(name))
	return seed ^ int64(h.Sum64())
}
