package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "gpt-4o", cfg.Provider.Model)
	assert.Equal(t, 20, cfg.Memory.Retention)
	assert.Equal(t, 10, cfg.Memory.Window)
	assert.Equal(t, 4000, cfg.Router.MaxMessageLen)
	assert.Equal(t, 30*time.Second, cfg.Router.ProviderTimeout)
	assert.Len(t, cfg.Agents, 2)
	assert.Equal(t, "agent_alpha", cfg.Agents[0].ID)
	assert.Equal(t, "analytical", cfg.Agents[0].Personality)
	assert.Equal(t, "financial_advisor", cfg.Agents[0].Domain)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider.Name)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
provider:
  model: gpt-4o-mini
memory:
  backend: sqlite
  path: /tmp/agents.db
  retention: 30
  window: 8
agents:
  - id: agent_gamma
    personality: helpful
    business_domain: technical_support
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Provider.Model)
	assert.Equal(t, "sqlite", cfg.Memory.Backend)
	assert.Equal(t, 30, cfg.Memory.Retention)
	assert.Equal(t, 8, cfg.Memory.Window)
	require.Len(t, cfg.Agents, 1)
	assert.Equal(t, "agent_gamma", cfg.Agents[0].ID)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-123")
	t.Setenv("AGENTS_LOGGER_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", cfg.Provider.APIKey)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no model", func(c *Config) { c.Provider.Model = "" }, "provider.model"},
		{"bad backend", func(c *Config) { c.Memory.Backend = "redis" }, "memory.backend"},
		{"sqlite without path", func(c *Config) { c.Memory.Backend = "sqlite" }, "memory.path"},
		{"zero retention", func(c *Config) { c.Memory.Retention = 0 }, "memory.retention"},
		{"window over retention", func(c *Config) { c.Memory.Window = 50 }, "memory.window"},
		{"zero message len", func(c *Config) { c.Router.MaxMessageLen = 0 }, "max_message_len"},
		{"no agents", func(c *Config) { c.Agents = nil }, "at least one agent"},
		{"duplicate agent", func(c *Config) {
			c.Agents = append(c.Agents, c.Agents[0])
		}, "duplicate agent id"},
		{"bad status", func(c *Config) { c.Agents[0].Status = "paused" }, "status"},
		{"missing personality", func(c *Config) { c.Agents[0].Personality = "" }, "personality"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: ["), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
