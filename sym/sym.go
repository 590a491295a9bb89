// Package sym defines canonical symbols for ARGX subsystems.
// These symbols are stable markers across CLI output and log lines,
// letting a reader scan mixed output by subsystem at a glance.
package sym

// Argument structure symbols.
const (
	Goal     = "◎" // goal — a claim to be supported
	Strategy = "◇" // strategy — a decomposition of a goal
	Solution = "▣" // solution — evidence grounding a claim
)

// Engine symbols.
const (
	Case     = "⊕" // argument case assembly
	Fragment = "⊞" // fragment library
	Compose  = "⋈" // ArgTL composition
	Query    = "⊨" // ACQL queries
	Reason   = "∴" // defeasible reasoning
	Deps     = "⇶" // dependency tracking and impact
	DB       = "⊔" // database/storage layer
)
