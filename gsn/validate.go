package gsn

import (
	"fmt"
	"sort"
)

// ValidationResult reports structural problems with a case.
// Errors make the case invalid; warnings do not.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validate checks the case's structural invariants: a root goal must be
// set, and every leaf node should carry evidence. An evidence-less leaf
// is a warning, not an error, because partial arguments are expected
// during construction.
func (c *ArgumentCase) Validate() ValidationResult {
	result := ValidationResult{
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
	}

	if c.RootGoalID == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "no root goal set")
	} else if _, ok := c.Nodes[c.RootGoalID]; !ok {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("root goal %s not present in case", c.RootGoalID))
	}

	// Deterministic warning order for stable output
	ids := make([]string, 0, len(c.Nodes))
	for id := range c.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		node := c.Nodes[id]
		if node.IsLeaf() && !node.HasEvidence() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("leaf node %s %s has no evidence", node.Kind.Glyph(), id))
		}
	}

	return result
}
