package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Memory   MemoryConfig   `yaml:"memory"`
	Router   RouterConfig   `yaml:"router"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Logger   LoggerConfig   `yaml:"logger"`
	Tracer   TracerConfig   `yaml:"tracer"`
	Agents   []AgentConfig  `yaml:"agents"`
}

// ProviderConfig holds settings for the LLM provider.
type ProviderConfig struct {
	Name        string        `yaml:"name"`
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	ConnTimeout time.Duration `yaml:"conn_timeout"`
	RespTimeout time.Duration `yaml:"resp_timeout"`
	Pool        PoolConfig    `yaml:"pool"`
	Breaker     BreakerConfig `yaml:"breaker"`
}

// PoolConfig holds HTTP connection pool settings for the provider client.
type PoolConfig struct {
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `yaml:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
}

// BreakerConfig holds circuit breaker settings for the provider.
type BreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// MemoryConfig holds conversation memory settings.
type MemoryConfig struct {
	// Backend selects the store: "memory" or "sqlite".
	Backend string `yaml:"backend"`
	// Path is the SQLite database file (sqlite backend only).
	Path string `yaml:"path"`
	// Retention is the maximum number of turns kept per conversation.
	Retention int `yaml:"retention"`
	// Window is the maximum number of turns included in a prompt.
	// Retention may keep more history than is sent to the model.
	Window int `yaml:"window"`
}

// RouterConfig holds request handling settings.
type RouterConfig struct {
	MaxMessageLen   int           `yaml:"max_message_len"`
	ProviderTimeout time.Duration `yaml:"provider_timeout"`
	// MaxRetries bounds retries of retryable provider failures.
	// Auth and bad-request failures are never retried.
	MaxRetries int `yaml:"max_retries"`
}

// GatewayConfig holds HTTP gateway settings.
type GatewayConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// AgentConfig defines a single agent instance.
type AgentConfig struct {
	ID          string `yaml:"id"`
	Personality string `yaml:"personality"`
	Domain      string `yaml:"business_domain"`
	Status      string `yaml:"status"`
}

// Defaults returns a Config with sensible defaults: the two stock agents and
// an in-process memory backend.
func Defaults() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:        "openai",
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o",
			MaxTokens:   1000,
			ConnTimeout: 30 * time.Second,
			RespTimeout: 120 * time.Second,
		},
		Memory: MemoryConfig{
			Backend:   "memory",
			Retention: 20,
			Window:    10,
		},
		Router: RouterConfig{
			MaxMessageLen:   4000,
			ProviderTimeout: 30 * time.Second,
			MaxRetries:      1,
		},
		Gateway: GatewayConfig{
			Enabled: true,
			Addr:    ":8080",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
		Agents: []AgentConfig{
			{ID: "agent_alpha", Personality: "analytical", Domain: "financial_advisor", Status: "active"},
			{ID: "agent_beta", Personality: "creative", Domain: "content_creator", Status: "active"},
		},
	}
}

// Load reads a YAML config file and applies env var overrides. A missing
// file is not an error: defaults plus env overrides are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides to cfg.
// Secrets are expected to come from the environment, not the config file.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("AGENTS_PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("AGENTS_PROVIDER_MODEL"); v != "" {
		cfg.Provider.Model = v
	}
	if v := os.Getenv("AGENTS_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("AGENTS_GATEWAY_ADDR"); v != "" {
		cfg.Gateway.Addr = v
	}
	if v := os.Getenv("AGENTS_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("AGENTS_MEMORY_BACKEND"); v != "" {
		cfg.Memory.Backend = v
	}
	if v := os.Getenv("AGENTS_MEMORY_PATH"); v != "" {
		cfg.Memory.Path = v
	}
}
