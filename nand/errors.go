package nand

import "errors"

var (
	// ErrInvalidIndex is returned when a block or page index is out of range.
	// No state is mutated when it is returned.
	ErrInvalidIndex = errors.New("invalid index")

	// ErrInvalidConfig is returned when geometry, timing or GC parameters are out of range.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrNoEmptyPage signals a caller asked for an empty page in a full block.
	// Correct policies never trigger it.
	ErrNoEmptyPage = errors.New("no empty page available in block")

	// ErrInvalidTransition is returned by MarkDirty on a page that is not InUse.
	ErrInvalidTransition = errors.New("invalid page transition")
)
