// Package cmdutil provides shared command utilities: flag groups, handler
// registry construction from settings and report formatting.
package cmdutil

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/forgekit/forge/internal/config"
)

// GenerateFlags holds the flags of commands that run handlers
// (new, list).
type GenerateFlags struct {
	TemplatesDir  string
	Workers       int
	ToolTimeout   time.Duration
	Strict        bool
	Force         bool
	ExternalTools bool
}

// AddTo registers the generate flags on the given cobra command.
func (f *GenerateFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.TemplatesDir, "templates-dir", "",
		"Template catalog directory (default: built-in templates)")
	cmd.Flags().IntVarP(&f.Workers, "workers", "w", config.DefaultWorkers,
		"Components generated concurrently")
	cmd.Flags().DurationVar(&f.ToolTimeout, "tool-timeout", config.DefaultToolTimeout,
		"Timeout for each external tool invocation")
	cmd.Flags().BoolVar(&f.Strict, "strict", false,
		"Fail on unresolved template placeholders")
	cmd.Flags().BoolVarP(&f.Force, "force", "f", false,
		"Write into existing component directories")
	cmd.Flags().BoolVar(&f.ExternalTools, "external-tools", false,
		"Allow external tools (dx, cargo tauri, cargo embassy) to scaffold components")
}

// Overrides returns the flag values the user set explicitly.
func (f *GenerateFlags) Overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("templates-dir") {
		o.TemplatesDir = &f.TemplatesDir
	}
	if flags.Changed("workers") {
		o.Workers = &f.Workers
	}
	if flags.Changed("tool-timeout") {
		o.ToolTimeout = &f.ToolTimeout
	}
	if flags.Changed("strict") {
		o.StrictVariables = &f.Strict
	}
	if flags.Changed("force") {
		o.Force = &f.Force
	}
	if flags.Changed("external-tools") {
		o.ExternalTools = &f.ExternalTools
	}
	return o
}

// Resolve applies the explicitly set flags on top of a copy of base and
// logs where each setting came from.
func (f *GenerateFlags) Resolve(cmd *cobra.Command, base *config.Settings) *config.Settings {
	s := *base
	config.LogResolvedValues(f.Overrides(cmd).Apply(&s))
	return &s
}
