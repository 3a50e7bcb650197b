package pipeline

import "time"

// Default values for statement processing. All of them can be overridden
// through configuration; these mirror the sizing the extraction model was
// tuned against.
const (
	// DefaultChunkSize is the maximum window size, in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the number of characters shared by two
	// consecutive windows so a line crossing a boundary is fully visible
	// to at least one of them.
	DefaultChunkOverlap = 100

	// DefaultModelName is the Gemini model used for record extraction.
	DefaultModelName = "gemini-2.5-flash"

	// DefaultOracleTimeout bounds a single extraction call.
	DefaultOracleTimeout = 60 * time.Second

	// ReconcileTolerance is the maximum cent-level divergence between the
	// extracted sum and the statement total before a balancing entry is
	// synthesized.
	ReconcileTolerance = 0.01

	// BalancingDescription is the description of the synthesized entry.
	BalancingDescription = "Additional transactions to match statement total"
)
