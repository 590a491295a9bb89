package fragment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridic/ARGX/errors"
)

func TestAssessStrengthMonotonic(t *testing.T) {
	lib := NewLibrary()
	frag, err := lib.CreateFromPattern("component_quality", "core")
	require.NoError(t, err)

	previous := lib.AssessStrength(frag)
	assert.GreaterOrEqual(t, previous.StrengthScore, 0.0)
	assert.LessOrEqual(t, previous.StrengthScore, 1.0)
	assert.Equal(t, 0.0, previous.CompletenessScore)

	types := []string{"unit_tests", "integration_tests", "code_review", "static_analysis", "documentation"}
	for i, evidenceType := range types {
		frag.SatisfyEvidence(evidenceType, "ev-"+evidenceType)
		current := lib.AssessStrength(frag)

		assert.GreaterOrEqual(t, current.StrengthScore, previous.StrengthScore, "after %d links", i+1)
		assert.GreaterOrEqual(t, current.CompletenessScore, previous.CompletenessScore)
		assert.LessOrEqual(t, current.StrengthScore, 1.0)
		previous = current
	}

	assert.Equal(t, 1.0, previous.CompletenessScore)
	assert.InDelta(t, 1.0, previous.StrengthScore, 1e-9)
	assert.Empty(t, previous.WeaknessPoints)
}

func TestAssessStrengthNoRequiredEvidence(t *testing.T) {
	lib := NewLibrary()
	frag := New("FR-1", "bare", TypeComponent)

	assessment := lib.AssessStrength(frag)
	assert.Equal(t, 1.0, assessment.CompletenessScore)
	assert.Contains(t, assessment.WeaknessPoints, "no root goal or structure")
	assert.Contains(t, assessment.WeaknessPoints, "root goal has no child nodes")
}

func TestAssessStrengthWeaknessPerMissingEvidence(t *testing.T) {
	lib := NewLibrary()
	frag, err := lib.CreateFromPattern("security_assurance", "api")
	require.NoError(t, err)

	assessment := lib.AssessStrength(frag)
	assert.Contains(t, assessment.WeaknessPoints, "missing evidence: threat_model")
	assert.Contains(t, assessment.WeaknessPoints, "missing evidence: penetration_test")
	assert.Contains(t, assessment.WeaknessPoints, "missing evidence: dependency_audit")
}

func TestMarkValidatedGates(t *testing.T) {
	lib := NewLibrary()
	frag, err := lib.CreateFromPattern("performance_budget", "core")
	require.NoError(t, err)

	// Below gates while evidence is outstanding
	err = lib.MarkValidated(frag)
	assert.True(t, errors.Is(err, errors.ErrNotEligible))
	assert.Equal(t, StatusDraft, frag.Status)

	frag.SatisfyEvidence("load_test", "ev-1")
	frag.SatisfyEvidence("profiling_report", "ev-2")

	require.NoError(t, lib.MarkValidated(frag))
	assert.Equal(t, StatusValidated, frag.Status)

	frag.ResetStatus()
	assert.Equal(t, StatusDraft, frag.Status)
}

func TestSetThresholds(t *testing.T) {
	lib := NewLibrary()
	lib.SetThresholds(Thresholds{Strength: 0.1, Completeness: 0.0})

	frag, err := lib.CreateFromPattern("component_quality", "core")
	require.NoError(t, err)

	// Permissive thresholds validate an evidence-free skeleton
	require.NoError(t, lib.MarkValidated(frag))
	assert.Equal(t, StatusValidated, frag.Status)
}
