package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgekit/forge/internal/cmdtypes"
	"github.com/forgekit/forge/internal/output"
	"github.com/forgekit/forge/internal/project"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	var printConfig bool

	cmd := &cobra.Command{
		Use:   "vet [project-config]",
		Short: "Validate a project configuration",
		Long: `Validate a project configuration against the schema and the
composition rules, and list the components it expands to.

Defaults to ./config.json. Every problem is reported at once.

Examples:
  forge config vet
  forge config vet project.yaml --print`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := DefaultProjectConfig
			if len(args) == 1 {
				path = args[0]
			}
			return runConfigVet(path, printConfig)
		},
	}

	cmd.Flags().BoolVar(&printConfig, "print", false, "Print the normalized configuration as YAML")

	return cmd
}

func runConfigVet(path string, printConfig bool) error {
	pc, err := project.Load(path)
	if err != nil {
		return err
	}

	specs, err := pc.Specs()
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, spec := range specs {
		sb.WriteString(output.FormatComponentLine(string(spec.Kind), spec.Name, output.StatusPlanned))
		sb.WriteString(output.StyleDim.Render("  " + spec.Template))
		if len(spec.DependsOn) > 0 {
			sb.WriteString(output.StyleDim.Render(" -> " + strings.Join(spec.DependsOn, ", ")))
		}
		sb.WriteString("\n")
	}
	output.Print(sb.String())

	if printConfig {
		data, err := project.Marshal(pc)
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		output.Print("\n" + string(data))
	}

	output.Println(output.FormatCheckmark(fmt.Sprintf("%s is valid (%d components)", path, len(specs))))
	return nil
}
