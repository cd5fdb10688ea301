package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/forgekit/forge/internal/cmdtypes"
	"github.com/forgekit/forge/internal/config"
	"github.com/forgekit/forge/internal/fsutil"
	"github.com/forgekit/forge/internal/output"
)

const settingsHeader = "# forge settings\n# Environment variables (FORGE_*) and flags override these values.\n\n"

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a settings file with default values",
		Long: `Create a forge settings file with default values.

The file is created at ~/.forge/config.yaml by default.
Use --config-file to choose a different location.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInit(cfg.ConfigFile, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing settings file")

	return cmd
}

func runConfigInit(configFile string, force bool) error {
	if configFile == "" {
		var err error
		configFile, err = config.GetConfigFile()
		if err != nil {
			return fmt.Errorf("getting settings file path: %w", err)
		}
	}

	path, err := config.ExpandPath(configFile)
	if err != nil {
		return fmt.Errorf("expanding settings path: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return &cmdtypes.ExitError{
			Code: cmdtypes.ExitGeneralError,
			Err:  fmt.Errorf("settings file already exists at %s (use --force to overwrite)", path),
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	data, err := marshalSettings(config.DefaultSettings())
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	output.Println(output.FormatCheckmark(fmt.Sprintf("Settings file created: %s", path)))
	return nil
}

// marshalSettings encodes s with the keys the loader reads.
func marshalSettings(s *config.Settings) ([]byte, error) {
	timestamps := true
	if s.Log.Timestamps != nil {
		timestamps = *s.Log.Timestamps
	}

	doc := map[string]any{
		"templatesDir":    s.TemplatesDir,
		"workers":         s.Workers,
		"toolTimeout":     s.ToolTimeout.String(),
		"strictVariables": s.StrictVariables,
		"force":           s.Force,
		"externalTools":   s.ExternalTools,
		"log": map[string]any{
			"timestamps": timestamps,
		},
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling settings: %w", err)
	}
	return append([]byte(settingsHeader), data...), nil
}
