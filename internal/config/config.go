// Package config provides tool settings loading and management.
package config

import "time"

// Default values for tool settings.
const (
	DefaultWorkers     = 4
	DefaultToolTimeout = 5 * time.Minute
)

// LogSettings contains logging-related settings.
type LogSettings struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Nil means on. Override with --timestamps.
	Timestamps *bool `mapstructure:"timestamps"`
}

// Settings are the forge tool settings. They control how the engine runs,
// never what it generates; the project configuration document does that.
type Settings struct {
	// TemplatesDir is an on-disk template catalog used instead of the
	// built-in one. Env: FORGE_TEMPLATES_DIR
	TemplatesDir string `mapstructure:"templatesDir"`

	// Workers bounds how many components are generated concurrently.
	// Env: FORGE_WORKERS, Default: 4
	Workers int `mapstructure:"workers"`

	// ToolTimeout bounds each external tool invocation.
	// Env: FORGE_TOOL_TIMEOUT, Default: 5m
	ToolTimeout time.Duration `mapstructure:"toolTimeout"`

	// StrictVariables turns unresolved placeholders into render errors.
	// Env: FORGE_STRICT_VARIABLES
	StrictVariables bool `mapstructure:"strictVariables"`

	// Force allows handlers to write into non-empty component directories.
	// Env: FORGE_FORCE
	Force bool `mapstructure:"force"`

	// ExternalTools allows external-tool handlers (dioxus, tauri, embassy).
	// Env: FORGE_EXTERNAL_TOOLS
	ExternalTools bool `mapstructure:"externalTools"`

	// Log contains logging-related settings.
	Log LogSettings `mapstructure:"log"`
}

// DefaultSettings returns Settings with all default values populated.
func DefaultSettings() *Settings {
	return &Settings{
		Workers:     DefaultWorkers,
		ToolTimeout: DefaultToolTimeout,
	}
}

// WithDefaults fills zero values with defaults and returns s.
func (s *Settings) WithDefaults() *Settings {
	if s.Workers <= 0 {
		s.Workers = DefaultWorkers
	}
	if s.ToolTimeout <= 0 {
		s.ToolTimeout = DefaultToolTimeout
	}
	return s
}
