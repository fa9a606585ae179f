package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every write-policy relocation and GC reclaim.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Config controls trace collection behavior.
type Config struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected.
func (c Config) Enabled() bool {
	return c.Level == TraceLevelDecisions
}

// SimulationTrace collects decision records for a single disk.
type SimulationTrace struct {
	Config      Config
	Relocations []RelocationRecord
	GCRuns      []GCRunRecord
	Reclaims    []ReclaimRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config Config) *SimulationTrace {
	return &SimulationTrace{
		Config:      config,
		Relocations: make([]RelocationRecord, 0),
		GCRuns:      make([]GCRunRecord, 0),
		Reclaims:    make([]ReclaimRecord, 0),
	}
}

// RecordRelocation appends a full-block write policy decision.
func (st *SimulationTrace) RecordRelocation(record RelocationRecord) {
	st.Relocations = append(st.Relocations, record)
}

// RecordGCRun appends a garbage collector pass.
func (st *SimulationTrace) RecordGCRun(record GCRunRecord) {
	st.GCRuns = append(st.GCRuns, record)
}

// RecordReclaim appends a reclaimed block.
func (st *SimulationTrace) RecordReclaim(record ReclaimRecord) {
	st.Reclaims = append(st.Reclaims, record)
}
