package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridic/ARGX/argtl"
	"github.com/veridic/ARGX/fragment"
	"github.com/veridic/ARGX/store"
)

func TestParseFragmentSpec(t *testing.T) {
	name, pattern, component, err := parseFragmentSpec("q=component_quality:payments")
	require.NoError(t, err)
	assert.Equal(t, "q", name)
	assert.Equal(t, "component_quality", pattern)
	assert.Equal(t, "payments", component)

	for _, bad := range []string{"", "q", "q=", "q=component_quality", "=p:c", "q=:c"} {
		_, _, _, err := parseFragmentSpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestScriptTextPrefersEval(t *testing.T) {
	script, err := scriptText("validate q", []string{"ignored.argtl"})
	require.NoError(t, err)
	assert.Equal(t, "validate q", script)

	_, err = scriptText("", nil)
	assert.Error(t, err)

	_, err = scriptText("", []string{"/nonexistent/script.argtl"})
	assert.Error(t, err)
}

func TestAssembleAndStorePersistsCase(t *testing.T) {
	lib := fragment.NewLibrary()
	composer := argtl.NewComposer()
	for _, spec := range []struct{ id, pattern string }{
		{"q", "component_quality"},
		{"s", "security_assurance"},
	} {
		frag, err := lib.CreateFromPattern(spec.pattern, "payments")
		require.NoError(t, err)
		frag.FragmentID = spec.id
		require.NoError(t, composer.Register(frag))
	}

	mem := store.NewMemoryStore()
	argCase, err := assembleAndStore(composer, mem, []string{"q", "s"}, "case_1", "")
	require.NoError(t, err)
	assert.Equal(t, "case_1", argCase.CaseID)
	assert.Equal(t, "case_1", argCase.Title, "title defaults to the case id")

	// The saved case is what query and reason will load
	loaded, err := mem.LoadCase("case_1")
	require.NoError(t, err)
	assert.Equal(t, argCase.RootGoalID, loaded.RootGoalID)
	assert.Len(t, loaded.Nodes, len(argCase.Nodes))
}

func TestAssembleAndStoreUnknownFragment(t *testing.T) {
	_, err := assembleAndStore(argtl.NewComposer(), store.NewMemoryStore(), []string{"ghost"}, "case_1", "Title")
	assert.Error(t, err)

	_, err = store.NewMemoryStore().LoadCase("case_1")
	assert.Error(t, err, "nothing is saved when assembly fails")
}
