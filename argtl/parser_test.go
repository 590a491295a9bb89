package argtl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridic/ARGX/errors"
)

func TestParseCompose(t *testing.T) {
	cmd, err := ParseLine("compose F1 F2 -> merged")
	require.NoError(t, err)

	compose, ok := cmd.(ComposeCmd)
	require.True(t, ok)
	assert.Equal(t, []string{"F1", "F2"}, compose.FragmentIDs)
	assert.Equal(t, "merged", compose.Target)
	assert.Equal(t, StrategyParallel, compose.Strategy)
}

func TestParseComposeWithStrategy(t *testing.T) {
	cmd, err := ParseLine("COMPOSE F1 F2 F3 USING hierarchical -> combined")
	require.NoError(t, err)

	compose := cmd.(ComposeCmd)
	assert.Equal(t, StrategyHierarchical, compose.Strategy)
	assert.Len(t, compose.FragmentIDs, 3)
}

func TestParseComposeUnknownStrategy(t *testing.T) {
	_, err := ParseLine("compose F1 using sideways -> out")
	assert.True(t, errors.Is(err, errors.ErrUnknownStrategy))
}

func TestParseComposeMissingTarget(t *testing.T) {
	_, err := ParseLine("compose F1 F2")
	assert.Error(t, err)
}

func TestParseValidate(t *testing.T) {
	cmd, err := ParseLine("validate F1")
	require.NoError(t, err)
	assert.Equal(t, ValidateCmd{FragmentID: "F1"}, cmd)

	_, err = ParseLine("validate")
	assert.Error(t, err)

	_, err = ParseLine("validate F1 F2")
	assert.Error(t, err)
}

func TestParseLink(t *testing.T) {
	cmd, err := ParseLine(`link F1 to F2 via "auth token handoff"`)
	require.NoError(t, err)
	assert.Equal(t, LinkCmd{FromID: "F1", ToID: "F2", Interface: "auth token handoff"}, cmd)
}

func TestParseLinkMalformed(t *testing.T) {
	_, err := ParseLine(`link F1 F2 via "x"`)
	assert.Error(t, err)
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := ParseLine("teleport F1 -> out")
	assert.True(t, errors.Is(err, ErrUnknownCommand))
	assert.Equal(t, "Unknown command", err.Error())
}
