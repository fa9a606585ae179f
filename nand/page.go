package nand

// PageStatus is the lifecycle state of a single flash page.
type PageStatus uint8

const (
	// PageEmpty is an erased page, ready to be programmed.
	PageEmpty PageStatus = iota
	// PageInUse holds live data.
	PageInUse
	// PageDirty holds data superseded by a newer write; only an erase reclaims it.
	PageDirty
)

// String returns the one-letter code used in dumps: E, U or D.
func (s PageStatus) String() string {
	switch s {
	case PageEmpty:
		return "E"
	case PageInUse:
		return "U"
	case PageDirty:
		return "D"
	default:
		return "?"
	}
}

// Block is a fixed-size group of pages and the unit of erasure.
// empty and dirty always equal the number of pages in that state; every
// transition below updates the page and the counter together.
type Block struct {
	pages []PageStatus
	empty int
	dirty int
}

func newBlock(pagesPerBlock int) Block {
	return Block{
		pages: make([]PageStatus, pagesPerBlock), // zero value is PageEmpty
		empty: pagesPerBlock,
	}
}

// Empty returns the number of empty pages.
func (b *Block) Empty() int { return b.empty }

// Dirty returns the number of dirty pages.
func (b *Block) Dirty() int { return b.dirty }

// InUse returns the number of pages holding live data.
func (b *Block) InUse() int { return len(b.pages) - b.empty - b.dirty }

// Status returns the state of page p.
func (b *Block) Status(p int) PageStatus { return b.pages[p] }

// program moves an empty page to InUse.
func (b *Block) program(p int) {
	b.pages[p] = PageInUse
	b.empty--
}

// invalidate moves an InUse page to Dirty.
func (b *Block) invalidate(p int) {
	b.pages[p] = PageDirty
	b.dirty++
}

// erase resets every page to Empty.
func (b *Block) erase() {
	for p := range b.pages {
		b.pages[p] = PageEmpty
	}
	b.empty = len(b.pages)
	b.dirty = 0
}

// firstEmpty returns the lowest empty page index, or -1.
func (b *Block) firstEmpty() int {
	if b.empty <= 0 {
		return -1
	}
	for p, s := range b.pages {
		if s == PageEmpty {
			return p
		}
	}
	return -1
}
