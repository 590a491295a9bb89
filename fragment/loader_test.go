package fragment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const patternYAML = `
patterns:
  - name: deployment_safety
    type: component
    required_evidence:
      - rollback_plan
      - canary_results
    structure:
      - kind: goal
        statement: "{component} deploys without service disruption"
      - kind: strategy
        statement: "Argue over deployment stages of {component}"
      - kind: solution
        statement: "Canary analysis for {component}"
`

func TestLoadPatternFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deploy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(patternYAML), 0644))

	lib := NewLibrary()
	loaded, err := lib.LoadPatternFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	frag, err := lib.CreateFromPattern("deployment_safety", "billing")
	require.NoError(t, err)
	assert.Equal(t, []string{"rollback_plan", "canary_results"}, frag.RequiredEvidenceTypes)
	assert.Contains(t, frag.Nodes[frag.RootGoalID].Statement, "billing")
}

func TestLoadPatternDirSkipsBroken(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.yaml"), []byte(patternYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("patterns: [:::"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not yaml"), 0644))

	lib := NewLibrary()
	loaded, err := lib.LoadPatternDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
}

func TestLoadPatternDirMissing(t *testing.T) {
	lib := NewLibrary()
	_, err := lib.LoadPatternDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
