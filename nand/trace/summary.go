package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Relocations         int
	FailedRelocations   int
	RelocationWrites    int64
	RelocationErases    int64
	GCRuns              int
	IdleGCRuns          int // passes that reclaimed nothing
	ReclaimedBlocks     int
	ReclaimedDirtyPages int
	MeanLivePagesCopied float64
	BlockDistribution   map[int]int // block index → times reclaimed
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		BlockDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.Relocations = len(st.Relocations)
	for _, r := range st.Relocations {
		if !r.Succeeded {
			summary.FailedRelocations++
		}
		summary.RelocationWrites += r.Writes
		summary.RelocationErases += r.Erases
	}

	summary.GCRuns = len(st.GCRuns)
	for _, g := range st.GCRuns {
		if g.Reclaimed == 0 {
			summary.IdleGCRuns++
		}
	}

	if len(st.Reclaims) > 0 {
		live := 0
		for _, r := range st.Reclaims {
			summary.BlockDistribution[r.Block]++
			summary.ReclaimedDirtyPages += r.DirtyPages
			live += r.LivePages
		}
		summary.ReclaimedBlocks = len(st.Reclaims)
		summary.MeanLivePagesCopied = float64(live) / float64(len(st.Reclaims))
	}

	return summary
}
