package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forgekit/forge/internal/cmdtypes"
	"github.com/forgekit/forge/internal/cmdutil"
	"github.com/forgekit/forge/internal/engine"
	"github.com/forgekit/forge/internal/handler"
	"github.com/forgekit/forge/internal/output"
	"github.com/forgekit/forge/internal/project"
)

// DefaultProjectConfig is the project configuration read when --config is
// not given.
const DefaultProjectConfig = "config.json"

type newOptions struct {
	configPath string
	dir        string
	dryRun     bool
	generate   cmdutil.GenerateFlags
}

// NewNewCmd creates the new command.
func NewNewCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var opts newOptions

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a workspace from a project configuration",
		Long: `Generate a Cargo workspace from a project configuration.

Every configured app becomes a component directory under the project
directory. Components are generated concurrently; a failed component does
not stop the others. Generated components are registered as workspace
members, wired to the shared crate and have their imports of "shared"
rewritten to the namespaced crate name.

Exit codes:
  0  every component was generated
  2  the configuration is invalid; nothing was written
  3  at least one component failed
  5  the configuration file or template catalog does not exist

Examples:
  # Generate from ./config.json into ./<project_name>
  forge new

  # Generate from a YAML configuration into a specific directory
  forge new --config project.yaml --dir ./out

  # Show which handler would generate each component
  forge new --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runNew(c, cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", DefaultProjectConfig,
		"Project configuration file (JSON or YAML)")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "",
		"Project directory (default: ./<project_name>)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false,
		"Resolve handlers without writing anything")
	opts.generate.AddTo(cmd)

	return cmd
}

func runNew(c *cobra.Command, cfg *cmdtypes.GlobalConfig, opts *newOptions) error {
	settings := opts.generate.Resolve(c, cfg.SettingsOrDefault())

	pc, err := project.Load(opts.configPath)
	if err != nil {
		return err
	}
	if settings.ExternalTools {
		pc.ExternalTools = true
	}

	root := opts.dir
	if root == "" {
		root = pc.ProjectName
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving project directory: %w", err)
	}

	registry, err := cmdutil.NewRegistry(settings, handler.Options{})
	if err != nil {
		return err
	}
	eng := engine.New(registry, engine.Options{
		Root:    root,
		Workers: settings.Workers,
		DryRun:  opts.dryRun,
	})

	output.Debug("generating project",
		"project", pc.ProjectName,
		"config", opts.configPath,
		"root", root,
		"dry_run", opts.dryRun,
	)

	var report *engine.Report
	err = output.RunWithSpinner(c.Context(), fmt.Sprintf("Generating %s", pc.ProjectName), func(ctx context.Context) error {
		var runErr error
		report, runErr = eng.Run(ctx, pc)
		return runErr
	})
	if err != nil {
		return err
	}

	output.Print(cmdutil.FormatReport(report))
	cmdutil.PrintFailures(report)
	return cmdutil.ReportExitError(report)
}
