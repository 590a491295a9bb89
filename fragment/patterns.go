package fragment

import (
	"strings"
)

// PatternNode is one templated node in a pattern's structure.
// Statement templates substitute "{component}" with the component name
// at instantiation time.
type PatternNode struct {
	Kind      string `yaml:"kind" json:"kind"`
	Statement string `yaml:"statement" json:"statement"`
}

// Pattern is a named, data-driven template for a fragment: a templated
// root goal, a decomposition strategy, supporting nodes, and a fixed
// set of required evidence types.
type Pattern struct {
	Name             string        `yaml:"name" json:"name"`
	Type             Type          `yaml:"type" json:"type"`
	RequiredEvidence []string      `yaml:"required_evidence" json:"required_evidence"`
	Structure        []PatternNode `yaml:"structure" json:"structure"`
}

// render substitutes the component name into a statement template
func render(template, componentName string) string {
	return strings.ReplaceAll(template, "{component}", componentName)
}

// defaultPatterns returns the built-in pattern set seeded into every
// new library instance
func defaultPatterns() []Pattern {
	return []Pattern{
		{
			Name: "component_quality",
			Type: TypeQuality,
			RequiredEvidence: []string{
				"unit_tests", "integration_tests", "code_review",
				"static_analysis", "documentation",
			},
			Structure: []PatternNode{
				{Kind: "goal", Statement: "{component} meets its quality requirements"},
				{Kind: "strategy", Statement: "Argue over verification activities for {component}"},
				{Kind: "solution", Statement: "Test results for {component}"},
				{Kind: "solution", Statement: "Review records for {component}"},
			},
		},
		{
			Name: "security_assurance",
			Type: TypeSecurity,
			RequiredEvidence: []string{
				"threat_model", "penetration_test", "dependency_audit",
			},
			Structure: []PatternNode{
				{Kind: "goal", Statement: "{component} is acceptably secure against identified threats"},
				{Kind: "strategy", Statement: "Argue over each identified threat to {component}"},
				{Kind: "context", Statement: "Threat model for {component}"},
				{Kind: "solution", Statement: "Security assessment results for {component}"},
			},
		},
		{
			Name: "performance_budget",
			Type: TypePerformance,
			RequiredEvidence: []string{
				"load_test", "profiling_report",
			},
			Structure: []PatternNode{
				{Kind: "goal", Statement: "{component} meets its performance budget under expected load"},
				{Kind: "strategy", Statement: "Argue from measured behaviour of {component}"},
				{Kind: "assumption", Statement: "Load profile is representative of production"},
				{Kind: "solution", Statement: "Benchmark results for {component}"},
			},
		},
		{
			Name: "integration_readiness",
			Type: TypeIntegration,
			RequiredEvidence: []string{
				"contract_tests", "interface_spec", "integration_tests",
			},
			Structure: []PatternNode{
				{Kind: "goal", Statement: "{component} integrates correctly with its collaborators"},
				{Kind: "strategy", Statement: "Argue over each interface of {component}"},
				{Kind: "justification", Statement: "Interface contracts are the agreed integration surface"},
				{Kind: "solution", Statement: "Contract test results for {component}"},
			},
		},
	}
}
