package argtl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/fragment"
	"github.com/veridic/ARGX/gsn"
)

func buildComposer(t *testing.T, patterns ...string) (*Composer, []*fragment.Fragment) {
	t.Helper()
	lib := fragment.NewLibrary()
	composer := NewComposer()

	fragments := make([]*fragment.Fragment, 0, len(patterns))
	for i, pattern := range patterns {
		frag, err := lib.CreateFromPattern(pattern, "component")
		require.NoError(t, err)
		frag.FragmentID = frag.FragmentID + string(rune('A'+i))
		require.NoError(t, composer.Register(frag))
		fragments = append(fragments, frag)
	}
	return composer, fragments
}

func TestComposeParallelNodeCount(t *testing.T) {
	composer, fragments := buildComposer(t, "component_quality", "security_assurance")

	merged, err := composer.Compose(fragments, "combined", StrategyParallel)
	require.NoError(t, err)

	want := fragments[0].NodeCount() + fragments[1].NodeCount() + 2
	assert.Equal(t, want, merged.NodeCount())

	root := merged.Nodes[merged.RootGoalID]
	require.NotNil(t, root)
	assert.Equal(t, gsn.KindGoal, root.Kind)

	rootChildren := merged.ChildrenOf(root.ID)
	require.Len(t, rootChildren, 1)
	assert.Equal(t, gsn.KindStrategy, rootChildren[0].Kind)
	assert.Len(t, merged.ChildrenOf(rootChildren[0].ID), 2)
}

func TestComposeSequentialChains(t *testing.T) {
	composer, fragments := buildComposer(t, "component_quality", "security_assurance", "performance_budget")

	merged, err := composer.Compose(fragments, "chain", StrategySequential)
	require.NoError(t, err)

	total := 0
	for _, f := range fragments {
		total += f.NodeCount()
	}
	assert.Equal(t, total, merged.NodeCount(), "sequential adds no synthetic nodes")
	assert.Equal(t, fragments[0].RootGoalID, merged.RootGoalID)

	// Each subsequent root is a child of the previous root
	first := merged.Nodes[fragments[0].RootGoalID]
	assert.Contains(t, first.ChildIDs, fragments[1].RootGoalID)
	second := merged.Nodes[fragments[1].RootGoalID]
	assert.Contains(t, second.ChildIDs, fragments[2].RootGoalID)
}

func TestComposeHierarchicalAttachesViaStrategy(t *testing.T) {
	composer, fragments := buildComposer(t, "component_quality", "security_assurance")

	merged, err := composer.Compose(fragments, "tree", StrategyHierarchical)
	require.NoError(t, err)

	assert.Equal(t, fragments[0].RootGoalID, merged.RootGoalID)

	// component_quality has a strategy node; the second root hangs off it
	var strategyID string
	for _, child := range merged.ChildrenOf(merged.RootGoalID) {
		if child.Kind == gsn.KindStrategy {
			strategyID = child.ID
		}
	}
	require.NotEmpty(t, strategyID)
	strategyNode := merged.Nodes[strategyID]
	assert.Contains(t, strategyNode.ChildIDs, fragments[1].RootGoalID)
}

func TestComposeDoesNotMutateInputs(t *testing.T) {
	composer, fragments := buildComposer(t, "component_quality", "security_assurance")

	before := fragments[0].NodeCount()
	beforeChildren := len(fragments[0].Nodes[fragments[0].RootGoalID].ChildIDs)

	_, err := composer.Compose(fragments, "combined", StrategyParallel)
	require.NoError(t, err)

	assert.Equal(t, before, fragments[0].NodeCount())
	assert.Len(t, fragments[0].Nodes[fragments[0].RootGoalID].ChildIDs, beforeChildren)
	assert.Empty(t, fragments[0].Nodes[fragments[0].RootGoalID].ParentIDs)
}

func TestComposeUnknownFragment(t *testing.T) {
	composer := NewComposer()
	_, err := composer.ComposeIDs([]string{"ghost"}, "out", StrategyParallel)
	assert.True(t, errors.IsNotFound(err))
}

func TestComposeEmptyInput(t *testing.T) {
	composer := NewComposer()
	_, err := composer.Compose(nil, "out", StrategyParallel)
	assert.Error(t, err)
}

func TestLinkFragments(t *testing.T) {
	composer, fragments := buildComposer(t, "component_quality", "security_assurance")
	a, b := fragments[0], fragments[1]

	require.NoError(t, composer.LinkFragments(a.FragmentID, b.FragmentID, "shared auth boundary"))

	assert.Contains(t, a.DependsOn, b.FragmentID)
	assert.Equal(t, "shared auth boundary", a.InterfacePoints[b.FragmentID])
	assert.Contains(t, b.ProvidesTo, a.FragmentID)

	// Nodes are untouched
	assert.Equal(t, 4, a.NodeCount())

	assert.True(t, errors.IsNotFound(composer.LinkFragments(a.FragmentID, "ghost", "x")))
}

func TestValidateFragmentChecks(t *testing.T) {
	composer, fragments := buildComposer(t, "performance_budget")
	frag := fragments[0]

	results := composer.ValidateFragment(frag, []string{"completeness", "structure", "dependencies", "bogus"})
	assert.False(t, results["completeness"], "evidence outstanding")
	assert.True(t, results["structure"])
	assert.True(t, results["dependencies"])
	assert.False(t, results["bogus"], "unknown checks report false")

	frag.SatisfyEvidence("load_test", "ev-1")
	frag.SatisfyEvidence("profiling_report", "ev-2")
	results = composer.ValidateFragment(frag, []string{"completeness"})
	assert.True(t, results["completeness"])
}

func TestRegisterValidator(t *testing.T) {
	composer, fragments := buildComposer(t, "performance_budget")

	require.NoError(t, composer.RegisterValidator("has_name", func(f *fragment.Fragment) bool {
		return f.Name != ""
	}))
	assert.True(t, errors.IsConflict(composer.RegisterValidator("has_name", func(*fragment.Fragment) bool { return true })))

	results := composer.ValidateFragment(fragments[0], []string{"has_name"})
	assert.True(t, results["has_name"])
}

func TestAssembleCase(t *testing.T) {
	composer, fragments := buildComposer(t, "component_quality", "security_assurance")

	ids := []string{fragments[0].FragmentID, fragments[1].FragmentID}
	argCase, err := composer.AssembleCase(ids, "case_1", "Demo")
	require.NoError(t, err)

	assert.Equal(t, "case_1", argCase.CaseID)
	assert.Equal(t, "Demo", argCase.Title)
	assert.Equal(t, fragments[0].RootGoalID, argCase.RootGoalID)
	assert.Equal(t, fragments[0].NodeCount()+fragments[1].NodeCount(), len(argCase.Nodes))
}

func TestTransformationHistoryOrder(t *testing.T) {
	composer, fragments := buildComposer(t, "component_quality", "security_assurance")
	ids := []string{fragments[0].FragmentID, fragments[1].FragmentID}

	_, err := composer.Compose(fragments, "merged", StrategyParallel)
	require.NoError(t, err)
	require.NoError(t, composer.LinkFragments(ids[0], ids[1], "x"))
	_, err = composer.AssembleCase(ids, "case_1", "Demo")
	require.NoError(t, err)

	history := composer.TransformationHistory()
	require.Len(t, history, 4) // compose, link, compose (inside assemble), assemble_case
	assert.Equal(t, "compose", history[0].Type)
	assert.Equal(t, "link", history[1].Type)
	assert.Equal(t, "compose", history[2].Type)
	assert.Equal(t, "assemble_case", history[3].Type)
	assert.Equal(t, ids, history[0].Inputs)
}
