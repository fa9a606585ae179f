package workload

import (
	"fmt"
	"math/rand"

	"github.com/waf-sim/waf-sim/nand"
)

// Op is the kind of host request.
type Op uint8

const (
	OpWrite Op = iota
	OpRead
)

func (o Op) String() string {
	if o == OpRead {
		return "read"
	}
	return "write"
}

// Request is one host operation on a physical page address.
type Request struct {
	Op    Op
	Block int
	Page  int
}

// Generator produces the request stream for one disk.
// Deterministic given the same spec, geometry and seed. Addresses and the
// read/write mix come from separate streams, so changing ReadFraction keeps
// the address sequence.
//
// Thread-safety: NOT thread-safe. Use one generator per goroutine.
type Generator struct {
	spec      Spec
	geometry  nand.Geometry
	addrRNG   *rand.Rand
	mixRNG    *rand.Rand
	addresses AddressSampler
}

// NewGenerator creates a generator drawing from the address and read-mix
// streams of streams.
func NewGenerator(spec Spec, geometry nand.Geometry, streams *nand.Streams) (*Generator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if streams == nil {
		return nil, fmt.Errorf("generator needs random streams")
	}
	addresses, err := NewAddressSampler(spec, geometry.TotalPages())
	if err != nil {
		return nil, err
	}
	return &Generator{
		spec:      spec,
		geometry:  geometry,
		addrRNG:   streams.Source(nand.StreamAddresses),
		mixRNG:    streams.Source(nand.StreamReadMix),
		addresses: addresses,
	}, nil
}

// Next returns the next request.
func (g *Generator) Next() Request {
	op := OpWrite
	if g.spec.ReadFraction > 0 && g.mixRNG.Float64() < g.spec.ReadFraction {
		op = OpRead
	}
	lpn := g.addresses.Sample(g.addrRNG)
	ppb := int64(g.geometry.PagesPerBlock)
	return Request{Op: op, Block: int(lpn / ppb), Page: int(lpn % ppb)}
}
