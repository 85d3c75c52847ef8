package host

import (
	"fmt"

	"github.com/caarlos0/env/v9"
)

// Settings is the environment-derived runtime configuration.
type Settings struct {
	APIKey    string `env:"ANTHROPIC_API_KEY"`
	Model     string `env:"MCP_CHAT_MODEL" envDefault:"claude-3-7-sonnet-latest"`
	MaxTokens int64  `env:"MCP_CHAT_MAX_TOKENS" envDefault:"1024"`
	// MaxTurns caps the model-call cycles of a single query so a model
	// that keeps requesting tools cannot loop forever.
	MaxTurns int `env:"MCP_CHAT_MAX_TURNS" envDefault:"16"`
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse environment: %w", err)
	}
	if s.APIKey == "" {
		return Settings{}, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}
	if s.MaxTokens <= 0 {
		return Settings{}, fmt.Errorf("MCP_CHAT_MAX_TOKENS must be positive, got %d", s.MaxTokens)
	}
	if s.MaxTurns <= 0 {
		return Settings{}, fmt.Errorf("MCP_CHAT_MAX_TURNS must be positive, got %d", s.MaxTurns)
	}
	return s, nil
}
