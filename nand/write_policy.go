package nand

import "fmt"

// WritePolicy decides where an overwrite goes when its block has no empty page.
// FullBlockWrite is only invoked by RawWritePage for an InUse page in a full
// block. It reports whether the new data was placed; every counter and
// latency change happens through the Controller.
//
// All policies scan blocks and pages in ascending index order and take the
// first match, so runs are reproducible.
type WritePolicy interface {
	Name() string
	FullBlockWrite(c Controller, block, page int) (bool, error)
}

// WritePolicyKind names a WritePolicy implementation.
type WritePolicyKind string

const (
	WritePolicyDefault        WritePolicyKind = "default"
	WritePolicyInPlace        WritePolicyKind = "in-place"
	WritePolicyInPlaceNoErase WritePolicyKind = "in-place-no-erase"
)

// ValidWritePolicies is the set of recognized write policy names.
// Shared by DiskConfig.Validate() and NewWritePolicy() to avoid duplication.
// Empty string defaults to WritePolicyDefault.
var ValidWritePolicies = map[WritePolicyKind]bool{
	"":                        true,
	WritePolicyDefault:        true,
	WritePolicyInPlace:        true,
	WritePolicyInPlaceNoErase: true,
}

// IsValidWritePolicy returns true if name is a recognized write policy.
func IsValidWritePolicy(name string) bool {
	return ValidWritePolicies[WritePolicyKind(name)]
}

// NewWritePolicy creates a write policy by name.
// Panics on unrecognized names; validate with IsValidWritePolicy first.
func NewWritePolicy(kind WritePolicyKind) WritePolicy {
	if !ValidWritePolicies[kind] {
		panic(fmt.Sprintf("unknown write policy %q", kind))
	}
	switch kind {
	case "", WritePolicyDefault:
		return &DefaultPolicy{}
	case WritePolicyInPlace:
		return &InPlacePolicy{}
	case WritePolicyInPlaceNoErase:
		return &InPlaceNoErasePolicy{}
	default:
		panic(fmt.Sprintf("unhandled write policy %q", kind))
	}
}

// DefaultPolicy moves the data to the first empty page of the first other
// block that has one. It fails when every other block is full.
type DefaultPolicy struct{}

func (p *DefaultPolicy) Name() string { return string(WritePolicyDefault) }

func (p *DefaultPolicy) FullBlockWrite(c Controller, block, page int) (bool, error) {
	for b := 0; b < c.Geometry().TotalBlocks; b++ {
		if b == block || c.EmptyPagesIn(b) == 0 {
			continue
		}
		target, err := c.FindFirstEmptyPage(b)
		if err != nil {
			return false, err
		}
		if err := c.MarkDirty(block, page); err != nil {
			return false, err
		}
		if _, err := c.RawWritePage(b, target); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// InPlacePolicy compacts the block in place: read the live pages, apply the
// new write in memory, erase, and program the live set back into the same
// block. It always succeeds because the block holds at most its own live pages.
type InPlacePolicy struct{}

func (p *InPlacePolicy) Name() string { return string(WritePolicyInPlace) }

func (p *InPlacePolicy) FullBlockWrite(c Controller, block, page int) (bool, error) {
	if err := c.MarkDirty(block, page); err != nil {
		return false, err
	}
	live, err := snapshotLive(c, block, false)
	if err != nil {
		return false, err
	}
	live[page] = true

	if _, err := c.RawEraseBlock(block); err != nil {
		return false, err
	}
	if err := writeLive(c, block, live); err != nil {
		return false, err
	}
	return true, nil
}

// InPlaceNoErasePolicy copies the live pages plus the new write into the first
// fully empty block and leaves the source block entirely dirty for the
// garbage collector. Without a fully empty block it falls back to DefaultPolicy.
type InPlaceNoErasePolicy struct {
	fallback DefaultPolicy
}

func (p *InPlaceNoErasePolicy) Name() string { return string(WritePolicyInPlaceNoErase) }

func (p *InPlaceNoErasePolicy) FullBlockWrite(c Controller, block, page int) (bool, error) {
	target, ok := c.FindFirstEmptyBlock()
	if !ok {
		return p.fallback.FullBlockWrite(c, block, page)
	}

	if err := c.MarkDirty(block, page); err != nil {
		return false, err
	}
	live, err := snapshotLive(c, block, true)
	if err != nil {
		return false, err
	}
	live[page] = true

	if err := writeLive(c, target, live); err != nil {
		return false, err
	}
	return true, nil
}

// snapshotLive reads every page of block and flags the ones that returned
// data. Each successful read is charged. With invalidate set, every page read
// is also marked dirty.
func snapshotLive(c Controller, block int, invalidate bool) ([]bool, error) {
	live := make([]bool, c.Geometry().PagesPerBlock)
	for p := range live {
		ok, err := c.RawReadPage(block, p)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		live[p] = true
		if invalidate {
			if err := c.MarkDirty(block, p); err != nil {
				return nil, err
			}
		}
	}
	return live, nil
}

// writeLive programs every flagged page index into block.
func writeLive(c Controller, block int, live []bool) error {
	for p, ok := range live {
		if !ok {
			continue
		}
		if _, err := c.RawWritePage(block, p); err != nil {
			return err
		}
	}
	return nil
}
