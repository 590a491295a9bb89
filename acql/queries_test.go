package acql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/fragment"
	"github.com/veridic/ARGX/gsn"
)

func demoCase(t *testing.T) *gsn.ArgumentCase {
	t.Helper()
	argCase := gsn.NewCase("case_1", "Demo")
	for _, node := range []*gsn.ArgumentNode{
		gsn.NewNode("G1", gsn.KindGoal, "The service meets its reliability target"),
		gsn.NewNode("S1", gsn.KindStrategy, "Argue over failure modes"),
		gsn.NewNode("Sn1", gsn.KindSolution, "Soak test report"),
		gsn.NewNode("Sn2", gsn.KindSolution, "Failover drill log"),
	} {
		require.NoError(t, argCase.AddNode(node))
	}
	require.NoError(t, argCase.Link("G1", "S1"))
	require.NoError(t, argCase.Link("S1", "Sn1"))
	require.NoError(t, argCase.Link("S1", "Sn2"))
	require.NoError(t, argCase.SetRootGoal("G1"))
	return argCase
}

func demoFragment(t *testing.T) *fragment.Fragment {
	t.Helper()
	frag, err := fragment.NewLibrary().CreateFromPattern("component_quality", "svc")
	require.NoError(t, err)
	return frag
}

func TestQueryConsistency(t *testing.T) {
	engine := NewEngine()
	argCase := demoCase(t)

	result, err := engine.ExecuteQuery(KindConsistency, Target{Case: argCase})
	require.NoError(t, err)
	consistency := result.(ConsistencyResult)
	assert.True(t, consistency.Consistent)
	assert.Equal(t, 1, consistency.NodesChecked)

	require.NoError(t, argCase.AddNode(gsn.NewNode("G2", gsn.KindGoal, "Deployments always succeed")))
	require.NoError(t, argCase.AddNode(gsn.NewNode("G3", gsn.KindGoal, "Deployments never succeed")))

	result, err = engine.ExecuteQuery(KindConsistency, Target{Case: argCase})
	require.NoError(t, err)
	consistency = result.(ConsistencyResult)
	assert.False(t, consistency.Consistent)
	assert.Equal(t, 3, consistency.NodesChecked)
	require.Len(t, consistency.Issues, 1)
	assert.Contains(t, consistency.Issues[0], "G2")
	assert.Contains(t, consistency.Issues[0], "G3")
}

func TestQueryConsistencyEmptyCase(t *testing.T) {
	result, err := NewEngine().ExecuteQuery(KindConsistency, Target{Case: gsn.NewCase("c", "empty")})
	require.NoError(t, err)
	consistency := result.(ConsistencyResult)
	assert.True(t, consistency.Consistent)
	assert.Zero(t, consistency.NodesChecked)
}

func TestQueryCompleteness(t *testing.T) {
	engine := NewEngine()
	frag := demoFragment(t)

	result, err := engine.ExecuteQuery(KindCompleteness, Target{Fragment: frag})
	require.NoError(t, err)
	completeness := result.(CompletenessResult)
	assert.False(t, completeness.Complete, "evidence outstanding")
	assert.True(t, completeness.HasGoal)
	assert.True(t, completeness.HasStrategy)
	assert.Len(t, completeness.MissingElements, 5)

	for _, evidenceType := range []string{"unit_tests", "integration_tests", "code_review", "static_analysis", "documentation"} {
		frag.SatisfyEvidence(evidenceType, "ev-"+evidenceType)
	}

	result, err = engine.ExecuteQuery(KindCompleteness, Target{Fragment: frag})
	require.NoError(t, err)
	completeness = result.(CompletenessResult)
	assert.True(t, completeness.Complete)
	assert.Empty(t, completeness.MissingElements)
}

func TestQueryCompletenessEmptyFragment(t *testing.T) {
	frag := fragment.New("f1", "bare", fragment.TypeComponent)

	result, err := NewEngine().ExecuteQuery(KindCompleteness, Target{Fragment: frag})
	require.NoError(t, err)
	completeness := result.(CompletenessResult)
	assert.False(t, completeness.Complete)
	assert.NotEmpty(t, completeness.MissingElements)
}

func TestQuerySoundness(t *testing.T) {
	engine := NewEngine()
	argCase := demoCase(t)

	result, err := engine.ExecuteQuery(KindSoundness, Target{Case: argCase})
	require.NoError(t, err)
	assert.True(t, result.(SoundnessResult).Sound)

	// A strategy whose only descendant is context has nothing grounding it
	require.NoError(t, argCase.AddNode(gsn.NewNode("S2", gsn.KindStrategy, "Argue over vendors")))
	require.NoError(t, argCase.AddNode(gsn.NewNode("C1", gsn.KindContext, "Only one vendor in scope")))
	require.NoError(t, argCase.Link("G1", "S2"))
	require.NoError(t, argCase.Link("S2", "C1"))

	result, err = engine.ExecuteQuery(KindSoundness, Target{Case: argCase})
	require.NoError(t, err)
	soundness := result.(SoundnessResult)
	assert.False(t, soundness.Sound)
	require.Len(t, soundness.Issues, 1)
	assert.Contains(t, soundness.Issues[0], "S2")
}

func TestQueryCoverage(t *testing.T) {
	engine := NewEngine()
	argCase := demoCase(t)

	result, err := engine.ExecuteQuery(KindCoverage, Target{Case: argCase})
	require.NoError(t, err)
	coverage := result.(CoverageResult)
	assert.Equal(t, 2, coverage.TotalLeaves)
	assert.Zero(t, coverage.SupportedLeaves)
	assert.Zero(t, coverage.CoverageRatio)

	require.NoError(t, argCase.LinkEvidence("Sn1", "ev-1"))

	result, err = engine.ExecuteQuery(KindCoverage, Target{Case: argCase})
	require.NoError(t, err)
	coverage = result.(CoverageResult)
	assert.InDelta(t, 0.5, coverage.CoverageRatio, 1e-9)

	require.NoError(t, argCase.LinkEvidence("Sn2", "ev-2"))

	result, err = engine.ExecuteQuery(KindCoverage, Target{Case: argCase})
	require.NoError(t, err)
	coverage = result.(CoverageResult)
	assert.InDelta(t, 1.0, coverage.CoverageRatio, 1e-9)
	assert.Equal(t, 2, coverage.SupportedLeaves)
}

func TestQueryCoverageEmptyCase(t *testing.T) {
	result, err := NewEngine().ExecuteQuery(KindCoverage, Target{Case: gsn.NewCase("c", "empty")})
	require.NoError(t, err)
	coverage := result.(CoverageResult)
	assert.Zero(t, coverage.TotalLeaves)
	assert.Zero(t, coverage.CoverageRatio)
}

func TestQueryTraceability(t *testing.T) {
	engine := NewEngine()
	frag := demoFragment(t)

	solutions := frag.NodesByKind(gsn.KindSolution)
	require.NotEmpty(t, solutions)

	frag.SatisfyEvidence("unit_tests", "ev-1")
	require.NoError(t, frag.LinkEvidence(solutions[0].ID, "ev-1"))

	result, err := engine.ExecuteQuery(KindTraceability, Target{Fragment: frag})
	require.NoError(t, err)
	traceability := result.(TraceabilityResult)
	assert.True(t, traceability.Traceable)
	assert.Equal(t, 1, traceability.PathsCount)

	// Evidence recorded on the fragment but carried by no reachable
	// solution breaks traceability
	frag.SatisfyEvidence("code_review", "ev-2")

	result, err = engine.ExecuteQuery(KindTraceability, Target{Fragment: frag})
	require.NoError(t, err)
	traceability = result.(TraceabilityResult)
	assert.False(t, traceability.Traceable)
	assert.Equal(t, 1, traceability.PathsCount)
}

func TestQueryTraceabilityNoEvidence(t *testing.T) {
	result, err := NewEngine().ExecuteQuery(KindTraceability, Target{Fragment: demoFragment(t)})
	require.NoError(t, err)
	traceability := result.(TraceabilityResult)
	assert.False(t, traceability.Traceable)
	assert.Zero(t, traceability.PathsCount)
}

func TestQueryWeaknesses(t *testing.T) {
	engine := NewEngine()
	argCase := demoCase(t)

	result, err := engine.ExecuteQuery(KindWeaknesses, Target{Case: argCase})
	require.NoError(t, err)
	weaknesses := result.(WeaknessResult)
	assert.Equal(t, 2, weaknesses.WeaknessCount, "both leaves lack evidence")

	require.NoError(t, argCase.AddNode(gsn.NewNode("G9", gsn.KindGoal, "Orphan claim")))

	result, err = engine.ExecuteQuery(KindWeaknesses, Target{Case: argCase})
	require.NoError(t, err)
	weaknesses = result.(WeaknessResult)
	assert.Equal(t, 4, weaknesses.WeaknessCount, "orphan is flagged twice: no parent, no evidence")

	found := false
	for _, w := range weaknesses.Weaknesses {
		if w == "node G9 is orphaned" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestQueryWeaknessesOnFragment(t *testing.T) {
	frag := fragment.New("f1", "bare", fragment.TypeComponent)

	result, err := NewEngine().ExecuteQuery(KindWeaknesses, Target{Fragment: frag})
	require.NoError(t, err)
	weaknesses := result.(WeaknessResult)
	assert.Equal(t, 1, weaknesses.WeaknessCount)
	assert.Contains(t, weaknesses.Weaknesses[0], "no root goal")
}

func TestQueryDependencies(t *testing.T) {
	engine := NewEngine()
	frag := demoFragment(t)

	result, err := engine.ExecuteQuery(KindDependencies, Target{Fragment: frag})
	require.NoError(t, err)
	deps := result.(DependenciesResult)
	assert.False(t, deps.HasDependencies)

	frag.AddDependency("other_fragment")

	result, err = engine.ExecuteQuery(KindDependencies, Target{Fragment: frag})
	require.NoError(t, err)
	deps = result.(DependenciesResult)
	assert.True(t, deps.HasDependencies)
	assert.Equal(t, 1, deps.DependencyCount)
}

func TestQueryDefeaters(t *testing.T) {
	engine := NewEngine()
	argCase := demoCase(t)
	require.NoError(t, argCase.AddNode(gsn.NewNode("G2", gsn.KindGoal, "Requests always complete within budget")))
	require.NoError(t, argCase.AddNode(gsn.NewNode("G3", gsn.KindGoal, "Callers retry on transient failure")))

	result, err := engine.ExecuteQuery(KindDefeaters, Target{Case: argCase})
	require.NoError(t, err)
	defeaters := result.(DefeatersResult)
	assert.Equal(t, 1, defeaters.DefeaterCount)
	assert.Contains(t, defeaters.PotentialDefeaters[0], "G2")
	assert.Contains(t, defeaters.PotentialDefeaters[0], "always")
}

func TestExecuteQueryUnknownKind(t *testing.T) {
	_, err := NewEngine().ExecuteQuery("clairvoyance", Target{Case: demoCase(t)})
	assert.True(t, errors.IsNotFound(err))
}

func TestExecuteQueryTargetMismatch(t *testing.T) {
	engine := NewEngine()

	_, err := engine.ExecuteQuery(KindCompleteness, Target{Case: demoCase(t)})
	assert.Error(t, err, "completeness wants a fragment")

	_, err = engine.ExecuteQuery(KindConsistency, Target{Fragment: demoFragment(t)})
	assert.Error(t, err, "consistency wants a case")
}

func TestRegisterHandler(t *testing.T) {
	engine := NewEngine()

	require.NoError(t, engine.RegisterHandler("node_count", TargetEither, func(target Target) interface{} {
		if target.Case != nil {
			return len(target.Case.Nodes)
		}
		return 0
	}))
	assert.True(t, errors.IsConflict(engine.RegisterHandler("node_count", TargetEither, func(Target) interface{} { return nil })))
	assert.True(t, errors.IsConflict(engine.RegisterHandler(KindCoverage, TargetCase, queryCoverage)))

	result, err := engine.ExecuteQuery("node_count", Target{Case: demoCase(t)})
	require.NoError(t, err)
	assert.Equal(t, 4, result)

	assert.Len(t, engine.Kinds(), 9)
}

func TestRegisterHandlerMixedCaseKind(t *testing.T) {
	engine := NewEngine()

	require.NoError(t, engine.RegisterHandler("RiskNotes", TargetEither, func(Target) interface{} {
		return "noted"
	}))

	// Reachable under any casing
	for _, kind := range []Kind{"risknotes", "RiskNotes", "RISKNOTES"} {
		result, err := engine.ExecuteQuery(kind, Target{Case: demoCase(t)})
		require.NoError(t, err, kind)
		assert.Equal(t, "noted", result)
	}

	assert.True(t, errors.IsConflict(engine.RegisterHandler("RISKNOTES", TargetEither, func(Target) interface{} { return nil })))
}
