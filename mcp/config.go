package mcp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config maps server names to launch definitions, in the familiar
// mcpServers config file shape.
type Config struct {
	Servers map[string]ServerConfig `json:"mcpServers"`
}

type ServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

// LoadConfig turns a target path into server launch definitions. A .json
// file is parsed as an mcpServers config; a .py or .js file becomes a
// single "default" server launched with the matching interpreter.
func LoadConfig(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadConfigFile(path)
	case ".py":
		return scriptConfig("python", path), nil
	case ".js":
		return scriptConfig("node", path), nil
	default:
		return nil, fmt.Errorf("unsupported server target %q: want a .json config or a .py/.js server script", path)
	}
}

func loadConfigFile(path string) (*Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(bytes, &config); err != nil {
		return nil, err
	}

	if len(config.Servers) == 0 {
		return nil, fmt.Errorf("config %s defines no servers", path)
	}

	return &config, nil
}

func scriptConfig(command, path string) *Config {
	return &Config{
		Servers: map[string]ServerConfig{
			"default": {Command: command, Args: []string{path}},
		},
	}
}
