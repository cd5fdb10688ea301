// Package cmdtypes provides shared types for the cmd package and its helpers.
// It is separate from internal/cmd so internal/cmdutil can use them without
// an import cycle.
package cmdtypes

import (
	"github.com/forgekit/forge/internal/config"
	oerrors "github.com/forgekit/forge/internal/errors"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed into every sub-command
// constructor.
type GlobalConfig struct {
	Settings   *config.Settings
	ConfigFile string // resolved --config-file path
	Verbose    bool
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess            = oerrors.ExitSuccess
	ExitGeneralError       = oerrors.ExitGeneralError
	ExitConfigurationError = oerrors.ExitConfigurationError
	ExitPartialFailure     = oerrors.ExitPartialFailure
	ExitNotFound           = oerrors.ExitNotFound
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError

// SettingsOrDefault returns the loaded settings, or defaults when none were
// loaded.
func (g *GlobalConfig) SettingsOrDefault() *config.Settings {
	if g == nil || g.Settings == nil {
		return config.DefaultSettings()
	}
	return g.Settings
}
