package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgekit/forge/internal/cmdtypes"
	"github.com/forgekit/forge/internal/cmdutil"
	"github.com/forgekit/forge/internal/handler"
	"github.com/forgekit/forge/internal/output"
)

type listOptions struct {
	templatesDir string
	tools        bool
}

// NewListCmd creates the list command.
func NewListCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates and handlers",
		Long: `List the template catalog and the registered handlers in priority order.

With --tools, the binaries of external-tool handlers are looked up and
their versions reported.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runList(c, cfg, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.templatesDir, "templates-dir", "",
		"Template catalog directory (default: built-in templates)")
	cmd.Flags().BoolVar(&opts.tools, "tools", false,
		"Detect external tool binaries")

	return cmd
}

func runList(c *cobra.Command, cfg *cmdtypes.GlobalConfig, opts *listOptions) error {
	settings := *cfg.SettingsOrDefault()
	if c.Flags().Changed("templates-dir") {
		settings.TemplatesDir = opts.templatesDir
	}

	store, err := cmdutil.OpenStore(&settings)
	if err != nil {
		return err
	}
	descriptors, err := store.List()
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(output.StyleBold.Render("Templates"))
	sb.WriteString("\n")
	for _, d := range descriptors {
		fmt.Fprintf(&sb, "  %-24s %s\n", output.StyleNoun.Render(d.Name), output.StyleMuted.Render(d.Description))
		if names := d.VariableNames(); len(names) > 0 {
			fmt.Fprintf(&sb, "  %-24s variables: %s\n", "", strings.Join(names, ", "))
		}
	}

	registry, err := cmdutil.NewRegistry(&settings, handler.Options{})
	if err != nil {
		return err
	}

	sb.WriteString("\n")
	sb.WriteString(output.StyleBold.Render("Handlers"))
	sb.WriteString("\n")
	for _, h := range registry.Handlers() {
		fmt.Fprintf(&sb, "  %-24s %-14s %s\n",
			output.StyleNoun.Render(h.Name), h.Kind, strings.Join(h.Templates, ", "))
		if !opts.tools {
			continue
		}
		if _, ok := h.Tool(); !ok {
			continue
		}
		info := h.Detect(c.Context())
		if info.Found {
			fmt.Fprintf(&sb, "  %-24s %s %s\n", "", output.StatusStyle(output.StatusGenerated).Render("found"), info.Version)
		} else {
			fmt.Fprintf(&sb, "  %-24s %s %s\n", "", output.StatusStyle(output.StatusSkipped).Render("missing"), info.Message)
		}
	}

	output.Print(sb.String())
	return nil
}
