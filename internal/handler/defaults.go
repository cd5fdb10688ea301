package handler

import (
	"time"

	"github.com/forgekit/forge/internal/templates"
)

// Options configures the default handlers.
type Options struct {
	Store           templates.Store
	StrictVariables bool
	Force           bool
	ToolTimeout     time.Duration

	// Runner and LookPath replace os/exec for external tools; nil uses os/exec.
	Runner   Runner
	LookPath func(string) (string, error)
}

// DefaultRegistry returns the built-in handlers in priority order: external
// tools for specific frameworks first, then template handlers per
// component kind.
func DefaultRegistry(opts Options) *Registry {
	toolOpts := ToolOptions{
		Timeout:  opts.ToolTimeout,
		Force:    opts.Force,
		Runner:   opts.Runner,
		LookPath: opts.LookPath,
	}
	tmplOpts := TemplateOptions{
		Store:  opts.Store,
		Strict: opts.StrictVariables,
		Force:  opts.Force,
	}

	return NewRegistry(
		NewToolHandler("dioxus-cli", "Dioxus apps scaffolded by the dx CLI",
			[]string{"client/dioxus"},
			ToolSpec{
				Binary:         "dx",
				Command:        []string{"dx", "new", "{{component_name}}"},
				VersionCommand: []string{"dx", "--version"},
				InstallHint:    "cargo install dioxus-cli",
				NextSteps: []string{
					"cd {{component_name}} && dx serve",
				},
			}, toolOpts),
		NewToolHandler("tauri-cli", "Tauri desktop apps scaffolded by cargo tauri",
			[]string{"client/tauri"},
			ToolSpec{
				Binary:         "cargo-tauri",
				Command:        []string{"cargo", "tauri", "init", "--ci", "--app-name", "{{component_name}}"},
				VersionCommand: []string{"cargo", "tauri", "--version"},
				InPlace:        true,
				InstallHint:    "cargo install tauri-cli",
				NextSteps: []string{
					"cd {{component_name}} && cargo tauri dev",
					"cargo tauri build",
				},
			}, toolOpts),
		NewToolHandler("embassy-cli", "Embassy firmware scaffolded by cargo embassy",
			[]string{"embedded/embassy"},
			ToolSpec{
				Binary:         "cargo-embassy",
				Command:        []string{"cargo", "embassy", "init", "--chip", "{{chip}}", "{{component_name}}"},
				VersionCommand: []string{"cargo", "embassy", "--version"},
				Defaults:       templates.Variables{"chip": "rp2040"},
				InstallHint:    "cargo install cargo-embassy",
				NextSteps: []string{
					"cd {{component_name}} && cargo build --release",
					"cargo run --release",
				},
			}, toolOpts),

		NewTemplateHandler("shared", "Shared library crates", []string{"shared", "shared/*"}, tmplOpts),
		NewTemplateHandler("library", "Library crates", []string{"library", "library/*"}, tmplOpts),
		NewTemplateHandler("client", "Client applications", []string{"client/*"}, tmplOpts),
		NewTemplateHandler("server", "Server applications", []string{"server/*"}, tmplOpts),
		NewTemplateHandler("edge", "Edge functions", []string{"edge/*"}, tmplOpts),
		NewTemplateHandler("serverless", "Serverless functions", []string{"serverless/*"}, tmplOpts),
		NewTemplateHandler("data-science", "Data science projects", []string{"data-science/*"}, tmplOpts),
		NewTemplateHandler("embedded", "Embedded firmware", []string{"embedded/*"}, tmplOpts),
		NewTemplateHandler("minimal", "Minimal binary crates", []string{"minimal", "minimal/*"}, tmplOpts),
	)
}
