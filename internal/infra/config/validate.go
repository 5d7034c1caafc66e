package config

import (
	"fmt"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a
// *ValidationError when one or more problems are found, allowing callers to
// inspect all issues at once.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateProvider(cfg, ve)
	validateMemory(cfg, ve)
	validateRouter(cfg, ve)
	validateGateway(cfg, ve)
	validateAgents(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateProvider(cfg *Config, ve *ValidationError) {
	if cfg.Provider.Name == "" {
		ve.Add("provider.name must be set")
	}
	if cfg.Provider.Model == "" {
		ve.Add("provider.model must be set")
	}
	if cfg.Provider.ConnTimeout < 0 || cfg.Provider.RespTimeout < 0 {
		ve.Add("provider timeouts must not be negative")
	}
}

func validateMemory(cfg *Config, ve *ValidationError) {
	switch cfg.Memory.Backend {
	case "memory":
	case "sqlite":
		if cfg.Memory.Path == "" {
			ve.Add("memory.path must be set for the sqlite backend")
		}
	default:
		ve.Add("memory.backend must be %q or %q, got %q", "memory", "sqlite", cfg.Memory.Backend)
	}
	if cfg.Memory.Retention <= 0 {
		ve.Add("memory.retention must be > 0")
	}
	if cfg.Memory.Window <= 0 {
		ve.Add("memory.window must be > 0")
	}
	if cfg.Memory.Window > cfg.Memory.Retention {
		ve.Add("memory.window (%d) must not exceed memory.retention (%d)",
			cfg.Memory.Window, cfg.Memory.Retention)
	}
}

func validateRouter(cfg *Config, ve *ValidationError) {
	if cfg.Router.MaxMessageLen <= 0 {
		ve.Add("router.max_message_len must be > 0")
	}
	if cfg.Router.ProviderTimeout <= 0 {
		ve.Add("router.provider_timeout must be > 0")
	}
	if cfg.Router.MaxRetries < 0 {
		ve.Add("router.max_retries must not be negative")
	}
}

func validateGateway(cfg *Config, ve *ValidationError) {
	if cfg.Gateway.Enabled && cfg.Gateway.Addr == "" {
		ve.Add("gateway.addr must be set when the gateway is enabled")
	}
}

func validateAgents(cfg *Config, ve *ValidationError) {
	if len(cfg.Agents) == 0 {
		ve.Add("at least one agent must be configured")
	}
	seen := map[string]bool{}
	for i, a := range cfg.Agents {
		if a.ID == "" {
			ve.Add("agents[%d].id must be set", i)
			continue
		}
		if seen[a.ID] {
			ve.Add("duplicate agent id %q", a.ID)
		}
		seen[a.ID] = true
		if a.Personality == "" {
			ve.Add("agents[%d] (%s): personality must be set", i, a.ID)
		}
		if a.Domain == "" {
			ve.Add("agents[%d] (%s): business_domain must be set", i, a.ID)
		}
		switch a.Status {
		case "", "active", "disabled":
		default:
			ve.Add("agents[%d] (%s): status must be active or disabled, got %q", i, a.ID, a.Status)
		}
	}
}
