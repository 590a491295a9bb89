package fragment

import (
	"fmt"

	"github.com/veridic/ARGX/errors"
)

// Strength score weights. Structure and completeness dominate; the
// child bonus rewards decomposition without letting an evidence-free
// skeleton score high.
const (
	structureWeight    = 0.4
	completenessWeight = 0.5
	childBonus         = 0.1
)

// Assessment is a fragment's self-assessment: how strong and how
// complete the partial argument currently is, and what is missing.
type Assessment struct {
	StrengthScore     float64  `json:"strength_score"`
	CompletenessScore float64  `json:"completeness_score"`
	WeaknessPoints    []string `json:"weakness_points"`
}

// AssessStrength scores the fragment.
//
// CompletenessScore is satisfied/total required evidence types, 1.0
// when the pattern requires none. StrengthScore blends structural
// presence, completeness, and a bonus for actual decomposition; both
// scores stay in [0,1] and never decrease as evidence is linked.
func (l *Library) AssessStrength(f *Fragment) Assessment {
	assessment := Assessment{WeaknessPoints: []string{}}

	satisfied := len(f.SatisfiedEvidenceTypes)
	total := satisfied + len(f.RequiredEvidenceTypes)
	if total == 0 {
		assessment.CompletenessScore = 1.0
	} else {
		assessment.CompletenessScore = float64(satisfied) / float64(total)
	}

	hasStructure := f.RootGoalID != "" && f.NodeCount() > 0
	if hasStructure {
		assessment.StrengthScore += structureWeight
	} else {
		assessment.WeaknessPoints = append(assessment.WeaknessPoints, "no root goal or structure")
	}

	assessment.StrengthScore += completenessWeight * assessment.CompletenessScore
	for _, missing := range f.RequiredEvidenceTypes {
		assessment.WeaknessPoints = append(assessment.WeaknessPoints, fmt.Sprintf("missing evidence: %s", missing))
	}

	if hasStructure && len(f.ChildrenOf(f.RootGoalID)) > 0 {
		assessment.StrengthScore += childBonus
	} else {
		assessment.WeaknessPoints = append(assessment.WeaknessPoints, "root goal has no child nodes")
	}

	if assessment.StrengthScore > 1.0 {
		assessment.StrengthScore = 1.0
	}

	return assessment
}

// MarkValidated transitions a draft fragment to validated once its
// scores clear the library thresholds. Calling it on a fragment below
// the gates is a caller error.
func (l *Library) MarkValidated(f *Fragment) error {
	assessment := l.AssessStrength(f)

	if assessment.StrengthScore < l.thresholds.Strength {
		return errors.Wrapf(errors.ErrNotEligible,
			"fragment %s strength %.2f below %.2f",
			f.FragmentID, assessment.StrengthScore, l.thresholds.Strength)
	}
	if assessment.CompletenessScore < l.thresholds.Completeness {
		return errors.Wrapf(errors.ErrNotEligible,
			"fragment %s completeness %.2f below %.2f",
			f.FragmentID, assessment.CompletenessScore, l.thresholds.Completeness)
	}

	f.Status = StatusValidated
	return nil
}
