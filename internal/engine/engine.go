// Package engine runs project generation: it resolves a handler per
// component, materializes components concurrently, registers them in the
// workspace and rewrites their cross-component imports.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/handler"
	"github.com/forgekit/forge/internal/imports"
	"github.com/forgekit/forge/internal/output"
	"github.com/forgekit/forge/internal/project"
	"github.com/forgekit/forge/internal/templates"
	"github.com/forgekit/forge/internal/workspace"
)

// SharedReference is the name templates use for the shared component.
const SharedReference = "shared"

// DefaultWorkers is the materialization concurrency when unset.
const DefaultWorkers = 4

// Options configures an Engine.
type Options struct {
	// Root is the workspace directory components are generated under.
	Root string

	// Workers bounds concurrent component generation.
	Workers int

	// DryRun resolves handlers without writing anything.
	DryRun bool
}

// Engine generates projects.
type Engine struct {
	registry *handler.Registry
	opts     Options
}

// New creates an engine that resolves handlers from registry.
func New(registry *handler.Registry, opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Engine{registry: registry, opts: opts}
}

// Run generates the project described by cfg. An invalid configuration
// aborts the run before any write and is returned as the error; every
// other failure is recorded per component in the report, and the returned
// error is nil.
func (e *Engine) Run(ctx context.Context, cfg *project.Config) (*Report, error) {
	report := &Report{Project: cfg.ProjectName, Root: e.opts.Root, DryRun: e.opts.DryRun}

	specs, err := cfg.Specs()
	if err == nil {
		err = e.checkRoot()
	}
	if err != nil {
		report.Outcome = OutcomeAborted
		report.Err = err
		return report, err
	}

	e.plan(cfg, specs, report)
	if e.opts.DryRun {
		report.finish()
		return report, nil
	}

	e.materialize(ctx, report)

	// completed components are always composed and rewritten, even after
	// cancellation, so the workspace they leave behind is consistent
	finishCtx := context.WithoutCancel(ctx)
	e.compose(cfg, report)
	e.rewrite(finishCtx, cfg, report)
	e.collectNextSteps(report)

	report.finish()
	output.Debug("run finished", "outcome", report.Outcome.String(), "failures", len(report.Failures()))
	return report, nil
}

func (e *Engine) checkRoot() error {
	info, err := os.Stat(e.opts.Root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("checking project directory: %w", err)
	case !info.IsDir():
		return oerrors.NewConfigurationError(
			fmt.Sprintf("project directory %s is a file", e.opts.Root),
			e.opts.Root,
			"Choose another directory with --dir",
		)
	}
	return nil
}

// plan resolves a handler for every component. Resolution has no side
// effects, so dry runs stop here.
func (e *Engine) plan(cfg *project.Config, specs []project.ComponentSpec, report *Report) {
	shared, hasShared := cfg.SharedComponent()

	for _, spec := range specs {
		c := &ComponentReport{
			Spec:       spec,
			Identifier: templates.Namespace(cfg.ProjectName, spec.Name),
			Dir:        filepath.Join(e.opts.Root, spec.Name),
			Status:     StatusPlanned,
		}

		vars := templates.Variables(spec.Variables).Merge(
			templates.DeriveVariables(cfg.ProjectName, spec.Name),
			templates.Variables{
				templates.VarTemplate:             spec.Template,
				templates.VarComponentKind:        string(spec.Kind),
				templates.VarWorkspaceRelativeDir: "..",
			},
		)
		if hasShared {
			vars[templates.VarSharedCrateName] = templates.Namespace(cfg.ProjectName, shared)
		}
		c.request = handler.Request{
			Component: spec.Name,
			Template:  spec.Template,
			TargetDir: c.Dir,
			Variables: vars,
		}

		h, err := e.registry.Resolve(handler.Selection{Template: spec.Template, ExternalTools: cfg.ExternalTools})
		if err != nil {
			c.Status = StatusFailed
			c.fail(oerrors.NewComponentError(spec.Name, oerrors.ErrHandlerNotFound, err))
			output.Warn("no handler for component", "component", spec.Name, "template", spec.Template)
		} else {
			c.Handler = h
			output.Debug("resolved handler", "component", spec.Name, "template", spec.Template, "handler", h.String())
		}
		report.Components = append(report.Components, c)
	}
}

// materialize runs the handlers concurrently. A failed component does not
// stop its siblings; once ctx is done, components that have not started
// are recorded as failed.
func (e *Engine) materialize(ctx context.Context, report *Report) {
	var g errgroup.Group
	g.SetLimit(e.opts.Workers)

	for _, c := range report.Components {
		if c.Handler == nil {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				c.Status = StatusFailed
				c.fail(oerrors.NewComponentError(c.Spec.Name, oerrors.ErrHandlerExecution,
					fmt.Errorf("not started: %w", err)))
				return nil
			}

			result, err := c.Handler.Initialize(ctx, c.request)
			if err != nil {
				c.Status = StatusFailed
				c.fail(err)
				output.Error("component failed", "component", c.Spec.Name, "err", err)
				return nil
			}

			c.Status = StatusGenerated
			c.Files = result.Files
			output.Info("generated component", "component", c.Spec.Name, "handler", c.Handler.Name, "files", len(result.Files))
			return nil
		})
	}

	_ = g.Wait()
}

// compose registers the generated components and their dependency edges.
// Edges are only added between generated components.
func (e *Engine) compose(cfg *project.Config, report *Report) {
	composer := workspace.NewComposer(e.opts.Root, cfg.ProjectName)

	members := make(map[string]bool)
	for _, c := range report.Components {
		if !c.Generated() {
			continue
		}
		if err := composer.AddMember(c.Spec.Name); err != nil {
			c.fail(oerrors.NewComponentError(c.Spec.Name, oerrors.ErrManifestEdit, err))
			continue
		}
		members[c.Spec.Name] = true
	}

	for _, c := range report.Components {
		if !members[c.Spec.Name] {
			continue
		}
		for _, dep := range c.Spec.DependsOn {
			if !members[dep] {
				c.Warnings = append(c.Warnings, fmt.Sprintf("dependency on %s not added: %s was not generated", dep, dep))
				output.Warn("skipping dependency", "from", c.Spec.Name, "to", dep)
				continue
			}
			if err := composer.AddDependency(c.Spec.Name, dep); err != nil {
				c.fail(oerrors.NewComponentError(c.Spec.Name, oerrors.ErrManifestEdit, err))
			}
		}
	}

	if len(members) == 0 {
		return
	}
	list, err := composer.Members()
	if err != nil {
		output.Warn("reading workspace members", "err", err)
		return
	}
	report.Members = list
}

// rewrite points each component's references to the shared component at
// its namespaced identifier. Components are rewritten concurrently; file
// failures are recorded on their component.
func (e *Engine) rewrite(ctx context.Context, cfg *project.Config, report *Report) {
	shared, ok := cfg.SharedComponent()
	if !ok {
		return
	}
	var sharedReport *ComponentReport
	for _, c := range report.Components {
		if c.Spec.Name == shared {
			sharedReport = c
		}
	}
	if sharedReport == nil || !sharedReport.Generated() {
		return
	}

	rewriter, err := imports.NewRewriter(map[string]string{
		SharedReference: templates.Namespace(cfg.ProjectName, shared),
	})
	if err != nil {
		sharedReport.fail(oerrors.NewComponentError(shared, oerrors.ErrImportRewrite, err))
		return
	}

	var g errgroup.Group
	g.SetLimit(e.opts.Workers)
	for _, c := range report.Components {
		if !c.Generated() || !dependsOn(c.Spec, shared) {
			continue
		}
		g.Go(func() error {
			result, err := rewriter.RewriteDir(ctx, c.Dir)
			if err != nil {
				c.fail(oerrors.NewComponentError(c.Spec.Name, oerrors.ErrImportRewrite, err))
				return nil
			}
			for _, ferr := range result.Errors {
				c.fail(oerrors.NewComponentError(c.Spec.Name, oerrors.ErrImportRewrite, ferr))
			}
			c.Rewrites = result.Replacements()
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Engine) collectNextSteps(report *Report) {
	for _, c := range report.Components {
		if c.Generated() {
			c.NextSteps = c.Handler.NextSteps(c.request)
		}
	}
}

func dependsOn(spec project.ComponentSpec, name string) bool {
	for _, dep := range spec.DependsOn {
		if dep == name {
			return true
		}
	}
	return false
}
