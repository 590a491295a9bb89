package reason

// Category groups theories by the system property they argue about
type Category string

const (
	CategoryReliability     Category = "reliability"
	CategorySecurity        Category = "security"
	CategoryMaintainability Category = "maintainability"
	CategoryPerformance     Category = "performance"
)

// Theory is a rule inferring a supported conclusion when every premise
// holds against the evidence context. Confidence is the theory's own
// weight in [0,1], before defeaters are considered.
type Theory struct {
	TheoryID      string      `json:"theory_id"`
	Name          string      `json:"name"`
	Category      Category    `json:"category"`
	Premises      []Predicate `json:"premises"`
	Conclusion    string      `json:"conclusion"`
	Justification string      `json:"justification,omitempty"`
	Confidence    float64     `json:"confidence"`
}

// DefeaterKind classifies how a defeater attacks a claim
type DefeaterKind string

const (
	// Rebuttal argues the claim's conclusion is false
	Rebuttal DefeaterKind = "rebuttal"
	// Undercut attacks the inference from evidence to claim
	Undercut DefeaterKind = "undercut"
	// Undermine attacks the evidence itself
	Undermine DefeaterKind = "undermine"
)

// Severity grades how much an active defeater should erode confidence
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityPenalty is the confidence reduction per active defeater
var severityPenalty = map[Severity]float64{
	SeverityLow:      0.05,
	SeverityMedium:   0.15,
	SeverityHigh:     0.25,
	SeverityCritical: 0.4,
}

// Defeater is a rule naming conditions under which a claim should be
// considered rebutted, undercut, or undermined
type Defeater struct {
	DefeaterID  string       `json:"defeater_id"`
	Name        string       `json:"name"`
	Kind        DefeaterKind `json:"kind"`
	TargetClaim string       `json:"target_claim"`
	Argument    string       `json:"argument"`
	Conditions  []Predicate  `json:"conditions"`
	Severity    Severity     `json:"severity"`
	Remediation string       `json:"remediation,omitempty"`
}
