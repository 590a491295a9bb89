package reason

import (
	"sort"
	"strings"

	"github.com/veridic/ARGX/acql"
	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/gsn"
	"github.com/veridic/ARGX/logger"
)

// Default risk-band boundaries on the 0-100 score
const (
	DefaultRiskMediumAt = 30
	DefaultRiskHighAt   = 60
)

// RiskLevel bands a risk score
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Result is the outcome of reasoning about one case
type Result struct {
	ApplicableTheories []Theory   `json:"applicable_theories"`
	ActiveDefeaters    []Defeater `json:"active_defeaters"`
	ConfidenceScore    float64    `json:"confidence_score"`
	Indefeasible       bool       `json:"indefeasible"`
	Recommendations    []string   `json:"recommendations"`
}

// ConsistencyReport is the reasoning view of the consistency query
type ConsistencyReport struct {
	Consistent bool     `json:"consistent"`
	Issues     []string `json:"issues"`
}

// RiskAssessment bands aggregate context signals into a score
type RiskAssessment struct {
	RiskScore int       `json:"risk_score"`
	RiskLevel RiskLevel `json:"risk_level"`
}

// Engine owns per-instance theory and defeater libraries. Independent
// sessions get independent engines; registries are never shared.
type Engine struct {
	theories  map[string]Theory
	defeaters map[string]Defeater
	queries   *acql.Engine

	riskMediumAt int
	riskHighAt   int
}

// NewEngine creates an engine seeded with the default libraries
func NewEngine() *Engine {
	e := &Engine{
		theories:     map[string]Theory{},
		defeaters:    map[string]Defeater{},
		queries:      acql.NewEngine(),
		riskMediumAt: DefaultRiskMediumAt,
		riskHighAt:   DefaultRiskHighAt,
	}
	for _, theory := range defaultTheories() {
		e.theories[theory.TheoryID] = theory
	}
	for _, defeater := range defaultDefeaters() {
		e.defeaters[defeater.DefeaterID] = defeater
	}
	return e
}

// SetRiskBands overrides the score boundaries between risk levels
func (e *Engine) SetRiskBands(mediumAt, highAt int) {
	e.riskMediumAt = mediumAt
	e.riskHighAt = highAt
}

// RegisterTheory adds a theory to this engine's library
func (e *Engine) RegisterTheory(theory Theory) error {
	if theory.TheoryID == "" {
		return errors.New("theory id is required")
	}
	if _, exists := e.theories[theory.TheoryID]; exists {
		return errors.NewConflictError("theory %s", theory.TheoryID)
	}
	e.theories[theory.TheoryID] = theory
	return nil
}

// RegisterDefeater adds a defeater to this engine's library
func (e *Engine) RegisterDefeater(defeater Defeater) error {
	if defeater.DefeaterID == "" {
		return errors.New("defeater id is required")
	}
	if _, exists := e.defeaters[defeater.DefeaterID]; exists {
		return errors.NewConflictError("defeater %s", defeater.DefeaterID)
	}
	e.defeaters[defeater.DefeaterID] = defeater
	return nil
}

// Theories returns the library sorted by id
func (e *Engine) Theories() []Theory {
	theories := make([]Theory, 0, len(e.theories))
	for _, theory := range e.theories {
		theories = append(theories, theory)
	}
	sort.Slice(theories, func(i, j int) bool { return theories[i].TheoryID < theories[j].TheoryID })
	return theories
}

// Defeaters returns the library sorted by id
func (e *Engine) Defeaters() []Defeater {
	defeaters := make([]Defeater, 0, len(e.defeaters))
	for _, defeater := range e.defeaters {
		defeaters = append(defeaters, defeater)
	}
	sort.Slice(defeaters, func(i, j int) bool { return defeaters[i].DefeaterID < defeaters[j].DefeaterID })
	return defeaters
}

// theoryApplies reports whether every premise holds against the context
func theoryApplies(theory Theory, context map[string]interface{}) bool {
	for _, premise := range theory.Premises {
		if !premise.Holds(context) {
			return false
		}
	}
	return true
}

// conclusionMatches reports whether the theory's conclusion shares a
// significant keyword with any node statement in the case. Matching is
// lexical, the same register the consistency scan works at.
func conclusionMatches(conclusion string, argCase *gsn.ArgumentCase) bool {
	for _, keyword := range strings.Fields(strings.ToLower(conclusion)) {
		if len(keyword) < 5 {
			continue
		}
		for _, node := range argCase.Nodes {
			if strings.Contains(strings.ToLower(node.Statement), keyword) {
				return true
			}
		}
	}
	return false
}

// ReasonAboutCase evaluates every theory and defeater against the
// context and folds them into a confidence score
func (e *Engine) ReasonAboutCase(argCase *gsn.ArgumentCase, context map[string]interface{}) Result {
	result := Result{
		ApplicableTheories: []Theory{},
		ActiveDefeaters:    []Defeater{},
		Recommendations:    []string{},
	}

	for _, theory := range e.Theories() {
		if theoryApplies(theory, context) && conclusionMatches(theory.Conclusion, argCase) {
			result.ApplicableTheories = append(result.ApplicableTheories, theory)
		}
	}

	seen := map[string]bool{}
	for _, defeater := range e.Defeaters() {
		if !defeaterActive(defeater, context) {
			continue
		}
		result.ActiveDefeaters = append(result.ActiveDefeaters, defeater)
		if defeater.Remediation != "" && !seen[defeater.Remediation] {
			seen[defeater.Remediation] = true
			result.Recommendations = append(result.Recommendations, defeater.Remediation)
		}
	}

	result.Indefeasible = len(result.ActiveDefeaters) == 0
	result.ConfidenceScore = e.confidence(result.ApplicableTheories, result.ActiveDefeaters)

	logger.Debugw("reasoned about case",
		"case", argCase.CaseID,
		"applicable", len(result.ApplicableTheories),
		"defeaters", len(result.ActiveDefeaters),
		"confidence", result.ConfidenceScore)
	return result
}

// defeaterActive reports whether every condition holds. A defeater with
// no conditions never fires.
func defeaterActive(defeater Defeater, context map[string]interface{}) bool {
	if len(defeater.Conditions) == 0 {
		return false
	}
	for _, condition := range defeater.Conditions {
		if !condition.Holds(context) {
			return false
		}
	}
	return true
}

// confidence is the mean applicable-theory confidence minus a
// severity-weighted penalty per active defeater, clamped to [0,1]
func (e *Engine) confidence(theories []Theory, defeaters []Defeater) float64 {
	if len(theories) == 0 {
		return 0
	}

	total := 0.0
	for _, theory := range theories {
		total += theory.Confidence
	}
	score := total / float64(len(theories))

	for _, defeater := range defeaters {
		score -= severityPenalty[defeater.Severity]
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// AnalyzeConsistency reuses the query engine's consistency handler
func (e *Engine) AnalyzeConsistency(argCase *gsn.ArgumentCase) ConsistencyReport {
	result, err := e.queries.ExecuteQuery(acql.KindConsistency, acql.Target{Case: argCase})
	if err != nil {
		return ConsistencyReport{Consistent: true, Issues: []string{}}
	}
	consistency := result.(acql.ConsistencyResult)
	return ConsistencyReport{Consistent: consistency.Consistent, Issues: consistency.Issues}
}

// EstimateRisk bands aggregate context signals into a 0-100 score.
// Every signal is optional; missing signals count against the case the
// way absent evidence does.
func (e *Engine) EstimateRisk(argCase *gsn.ArgumentCase, context map[string]interface{}) RiskAssessment {
	score := 0

	coverage, ok := contextFloat(context, "coverage")
	switch {
	case !ok:
		score += 20
	case coverage < 50:
		score += 30
	case coverage < 80:
		score += 15
	}

	if complexity, ok := contextFloat(context, "complexity"); ok {
		switch {
		case complexity > 20:
			score += 25
		case complexity > 10:
			score += 10
		}
	}

	if pass, ok := context["tests_pass"].(bool); !ok || !pass {
		score += 20
	}

	if defects, ok := contextFloat(context, "open_defects"); ok && defects >= 1 {
		score += 10
	}

	if argCase != nil && argCase.RootGoalID == "" {
		score += 15
	}

	if score > 100 {
		score = 100
	}

	level := RiskLow
	switch {
	case score >= e.riskHighAt:
		level = RiskHigh
	case score >= e.riskMediumAt:
		level = RiskMedium
	}

	return RiskAssessment{RiskScore: score, RiskLevel: level}
}

func contextFloat(context map[string]interface{}, key string) (float64, bool) {
	raw, ok := context[key]
	if !ok {
		return 0, false
	}
	return asFloat(raw)
}
