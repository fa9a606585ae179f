// Package trace provides decision-trace recording for write-policy and
// garbage-collector analysis.
// It does not import nand; it only stores plain data types.
package trace

// RelocationRecord captures one invocation of a full-block write policy.
type RelocationRecord struct {
	Clock     int64 // device elapsed time (µs) before the policy ran
	Block     int
	Page      int
	Policy    string
	Succeeded bool
	Writes    int64 // pages programmed by the policy
	Reads     int64 // pages read by the policy
	Erases    int64 // blocks erased by the policy
}

// GCRunRecord captures one garbage collector pass that passed its time check.
type GCRunRecord struct {
	Clock     int64
	Collector string
	Reclaimed int // blocks reclaimed in this pass
}

// ReclaimRecord captures a single block reclaimed by the garbage collector.
type ReclaimRecord struct {
	Clock      int64
	Block      int
	DirtyPages int // dirty pages freed
	LivePages  int // in-use pages copied back
}
