package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgekit/forge/internal/cmdtypes"
	"github.com/forgekit/forge/internal/engine"
	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/imports"
	"github.com/forgekit/forge/internal/output"
	"github.com/forgekit/forge/internal/templates"
	"github.com/forgekit/forge/internal/workspace"
)

type fixImportsOptions struct {
	project string
	shared  string
	from    string
	to      string
	include []string
}

// NewFixImportsCmd creates the fix-imports command.
func NewFixImportsCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	var opts fixImportsOptions

	cmd := &cobra.Command{
		Use:   "fix-imports <component-dir>",
		Short: "Rewrite references to the shared crate in one component",
		Long: `Rewrite references to the shared crate in the Rust sources of one
component directory, the same way 'forge new' does after generation.

The target crate name is <project>_<shared> in snake case. When --project
is not given it is inferred from the component's Cargo.toml package name,
which forge sets to <project>_<component>.

Examples:
  # Rewrite shared:: to my_app_common:: in ./my-app/web
  forge fix-imports ./my-app/web --project my-app --shared common

  # Rewrite an explicit mapping
  forge fix-imports ./web --from shared --to acme_core`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runFixImports(c, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.project, "project", "p", "",
		"Project name (default: inferred from the component's Cargo.toml)")
	cmd.Flags().StringVar(&opts.shared, "shared", "shared",
		"Name of the shared component")
	cmd.Flags().StringVar(&opts.from, "from", engine.SharedReference,
		"Crate name the sources refer to")
	cmd.Flags().StringVar(&opts.to, "to", "",
		"Crate name to rewrite to (default: <project>_<shared>)")
	cmd.Flags().StringSliceVar(&opts.include, "include", imports.DefaultInclude,
		"Globs of files to rewrite, relative to the component directory")

	return cmd
}

func runFixImports(c *cobra.Command, dir string, opts *fixImportsOptions) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return oerrors.NewNotFoundError(
			fmt.Sprintf("component directory %s does not exist", dir),
			dir,
			"Pass the path of a generated component",
		)
	}

	target := opts.to
	if target == "" {
		project := opts.project
		if project == "" {
			project, err = inferProject(dir)
			if err != nil {
				return err
			}
		}
		target = templates.Namespace(project, opts.shared)
	}

	rewriter, err := imports.NewRewriter(map[string]string{opts.from: target}, imports.WithInclude(opts.include...))
	if err != nil {
		return oerrors.NewConfigurationError(err.Error(), "", "Crate names must be Rust identifiers")
	}

	output.Debug("rewriting imports", "dir", dir, "from", opts.from, "to", target)
	result, err := rewriter.RewriteDir(c.Context(), dir)
	if err != nil {
		return err
	}

	for _, f := range result.Changed {
		output.Info("rewrote imports", "file", f.Path, "replacements", f.Replacements)
	}
	for _, ferr := range result.Errors {
		output.Error(ferr.Error())
	}

	output.Println(fmt.Sprintf("%s %d references to %s in %d of %d files",
		summaryPrefix(len(result.Errors)), result.Replacements(), target, len(result.Changed), result.Scanned))

	if len(result.Errors) > 0 {
		return &oerrors.ExitError{
			Code:    oerrors.ExitPartialFailure,
			Err:     fmt.Errorf("%d files could not be rewritten", len(result.Errors)),
			Printed: true,
		}
	}
	return nil
}

func summaryPrefix(failures int) string {
	if failures > 0 {
		return output.StatusStyle(output.StatusFailed).Render("Rewrote")
	}
	return output.FormatCheckmark("Rewrote")
}

// inferProject recovers the project name from a component manifest whose
// package name is <project>_<component>.
func inferProject(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving component directory: %w", err)
	}

	manifest, err := workspace.LoadManifest(filepath.Join(abs, workspace.ManifestFile))
	if err != nil {
		return "", err
	}
	pkg := manifest.PackageName()
	suffix := "_" + templates.SnakeCase(filepath.Base(abs))

	if !manifest.Exists() || pkg == "" || !strings.HasSuffix(pkg, suffix) || pkg == suffix {
		return "", oerrors.NewConfigurationError(
			fmt.Sprintf("cannot infer the project name of %s (package name %q)", dir, pkg),
			filepath.Join(dir, workspace.ManifestFile),
			"Pass --project or --to",
		)
	}
	return strings.TrimSuffix(pkg, suffix), nil
}
