package cmd

import (
	"github.com/spf13/cobra"

	"github.com/forgekit/forge/internal/cmdtypes"
	"github.com/forgekit/forge/internal/output"
	"github.com/forgekit/forge/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show forge version information.

Displays:
  - forge version, commit, and build date
  - CUE SDK version used to validate project configurations`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			output.Println(version.Get().String())
			return nil
		},
	}
}
