package cmd

import (
	"github.com/spf13/cobra"

	"github.com/forgekit/forge/internal/cmdtypes"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Settings and project configuration commands",
		Long: `Commands for forge settings and project configuration files.

Settings (~/.forge/config.yaml) control how forge runs: the template
catalog, concurrency, timeouts and overwrite policy. A project
configuration (config.json) describes what to generate.`,
	}

	cmd.AddCommand(NewConfigInitCmd(cfg))
	cmd.AddCommand(NewConfigVetCmd(cfg))

	return cmd
}
