package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	settings, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", settings.APIKey)
	assert.Equal(t, "claude-3-7-sonnet-latest", settings.Model)
	assert.Equal(t, int64(1024), settings.MaxTokens)
	assert.Equal(t, 16, settings.MaxTurns)
}

func TestLoadSettings_Overrides(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("MCP_CHAT_MODEL", "claude-sonnet-4-0")
	t.Setenv("MCP_CHAT_MAX_TOKENS", "4096")
	t.Setenv("MCP_CHAT_MAX_TURNS", "3")

	settings, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-0", settings.Model)
	assert.Equal(t, int64(4096), settings.MaxTokens)
	assert.Equal(t, 3, settings.MaxTurns)
}

func TestLoadSettings_MissingAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := LoadSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestLoadSettings_InvalidTokenBudget(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("MCP_CHAT_MAX_TOKENS", "0")

	_, err := LoadSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MCP_CHAT_MAX_TOKENS")
}

func TestLoadSettings_InvalidTurnLimit(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("MCP_CHAT_MAX_TURNS", "0")

	_, err := LoadSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MCP_CHAT_MAX_TURNS")
}
