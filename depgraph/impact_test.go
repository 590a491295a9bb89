package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridic/ARGX/errors"
)

// diamondTracker wires D -> B -> A and D -> C -> A
func diamondTracker(t *testing.T) *Tracker {
	t.Helper()
	tracker := NewTracker()
	for _, id := range []string{"A", "B", "C", "D"} {
		_, err := tracker.RegisterResource(KindFile, id, "/"+id, "git", nil, id)
		require.NoError(t, err)
	}
	require.NoError(t, tracker.LinkResources("B", "A", DepRequires, ""))
	require.NoError(t, tracker.LinkResources("C", "A", DepRequires, ""))
	require.NoError(t, tracker.LinkResources("D", "B", DepRequires, ""))
	require.NoError(t, tracker.LinkResources("D", "C", DepRequires, ""))
	return tracker
}

func TestGenerateImpactAnalysisDiamond(t *testing.T) {
	tracker := diamondTracker(t)

	analysis, err := tracker.GenerateImpactAnalysis("A")
	require.NoError(t, err)

	assert.Equal(t, "A", analysis.Resource.ResourceID)
	assert.Equal(t, 3, analysis.ImpactedCount)

	ids := make([]string, 0, len(analysis.ImpactedResources))
	for _, resource := range analysis.ImpactedResources {
		ids = append(ids, resource.ResourceID)
	}
	assert.Equal(t, []string{"B", "C", "D"}, ids, "converging paths report D once")
}

func TestGenerateImpactAnalysisLeaf(t *testing.T) {
	tracker := diamondTracker(t)

	analysis, err := tracker.GenerateImpactAnalysis("D")
	require.NoError(t, err)
	assert.Zero(t, analysis.ImpactedCount)
	assert.Empty(t, analysis.ImpactedResources)

	_, err = tracker.GenerateImpactAnalysis("ghost")
	assert.True(t, errors.IsNotFound(err))
}

func TestGetDependencyChain(t *testing.T) {
	tracker := diamondTracker(t)

	chain, err := tracker.GetDependencyChain("D")
	require.NoError(t, err)

	assert.Equal(t, "D", chain.ResourceID)
	require.Len(t, chain.Dependencies, 2)
	assert.Equal(t, "B", chain.Dependencies[0].ResourceID)

	// A appears under whichever branch reaches it first; the other
	// branch stops at the visited id
	require.Len(t, chain.Dependencies[0].Dependencies, 1)
	assert.Equal(t, "A", chain.Dependencies[0].Dependencies[0].ResourceID)
	assert.Empty(t, chain.Dependencies[1].Dependencies)

	_, err = tracker.GetDependencyChain("ghost")
	assert.True(t, errors.IsNotFound(err))
}

func TestGetDependencyChainCycleSafe(t *testing.T) {
	tracker := NewTracker()
	for _, id := range []string{"X", "Y"} {
		_, err := tracker.RegisterResource(KindService, id, "/"+id, "", nil, id)
		require.NoError(t, err)
	}
	require.NoError(t, tracker.LinkResources("X", "Y", DepRequires, ""))
	require.NoError(t, tracker.LinkResources("Y", "X", DepRequires, ""))

	chain, err := tracker.GetDependencyChain("X")
	require.NoError(t, err)
	require.Len(t, chain.Dependencies, 1)
	assert.Equal(t, "Y", chain.Dependencies[0].ResourceID)
	assert.Empty(t, chain.Dependencies[0].Dependencies, "cycle terminates at the visited id")

	// Mutual dependency also means mutual impact
	analysis, err := tracker.GenerateImpactAnalysis("X")
	require.NoError(t, err)
	assert.Equal(t, 1, analysis.ImpactedCount)
}
