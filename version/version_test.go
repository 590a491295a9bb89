package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	info := Info{Version: "1.2.0", CommitHash: "abcdef1234567890", BuildTime: "2026-08-25"}
	assert.Equal(t, "argx 1.2.0 (commit abcdef1234567890, built 2026-08-25)", info.String())

	info.Version = "dev"
	assert.Contains(t, info.String(), "argx dev")
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abcdef1", Info{CommitHash: "abcdef1234567890"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}
