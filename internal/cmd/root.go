// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/forgekit/forge/internal/cmdtypes"
	"github.com/forgekit/forge/internal/config"
	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/output"
)

// NewRootCmd creates the root command for the forge CLI.
func NewRootCmd() *cobra.Command {
	var (
		cfg            cmdtypes.GlobalConfig
		configFileFlag string
		timestampsFlag bool
	)

	rootCmd := &cobra.Command{
		Use:   "forge",
		Short: "Compose multi-component Rust workspaces",
		Long: `forge generates a Cargo workspace from a project configuration: one
component per configured app, rendered from templates or scaffolded by
framework tools, registered as workspace members and wired to the
shared crate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeGlobals(cmd, &cfg, configFileFlag, timestampsFlag)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFileFlag, "config-file", "", "Path to settings file (env: FORGE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewNewCmd(&cfg))
	rootCmd.AddCommand(NewListCmd(&cfg))
	rootCmd.AddCommand(NewFixImportsCmd(&cfg))
	rootCmd.AddCommand(NewConfigCmd(&cfg))
	rootCmd.AddCommand(NewVersionCmd(&cfg))

	return rootCmd
}

// initializeGlobals loads the settings file and sets up logging.
func initializeGlobals(cmd *cobra.Command, cfg *cmdtypes.GlobalConfig, configFileFlag string, timestampsFlag bool) error {
	configPath, err := config.ResolveConfigPath(configFileFlag)
	if err != nil {
		return err
	}

	settings, err := config.NewLoader().Load(configPath.Value)
	if err != nil {
		return &oerrors.ExitError{
			Code: oerrors.ExitConfigurationError,
			Err: &oerrors.DetailError{
				Type:     "invalid settings",
				Message:  err.Error(),
				Location: configPath.Value,
				Hint:     "Fix the settings file or run 'forge config init --force'",
				Cause:    oerrors.ErrConfiguration,
			},
		}
	}

	cfg.Settings = settings
	cfg.ConfigFile = configPath.Value

	// flag (if explicitly set) > settings file > default (on)
	logCfg := output.LogConfig{Verbose: cfg.Verbose}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else if settings.Log.Timestamps != nil {
		logCfg.Timestamps = settings.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	config.LogResolvedValues([]config.ResolvedValue{configPath})
	return nil
}
