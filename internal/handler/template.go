package handler

import (
	"context"

	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/output"
	"github.com/forgekit/forge/internal/templates"
)

// TemplateOptions configures a template handler.
type TemplateOptions struct {
	// Store supplies template trees.
	Store templates.Store

	// Strict turns unresolved placeholders into render errors.
	Strict bool

	// Force allows overwriting existing files in the target directory.
	Force bool
}

type templateGenerator struct {
	opts TemplateOptions
}

// NewTemplateHandler creates a handler that renders template trees for the
// template identifiers matching patterns.
func NewTemplateHandler(name, description string, patterns []string, opts TemplateOptions) *Handler {
	return &Handler{
		Name:        name,
		Description: description,
		Kind:        KindTemplate,
		Templates:   patterns,
		template:    &templateGenerator{opts: opts},
	}
}

func (g *templateGenerator) initialize(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, oerrors.NewComponentError(req.Component, oerrors.ErrHandlerExecution, err)
	}

	tree, err := g.opts.Store.Load(req.Template)
	if err != nil {
		return nil, oerrors.NewComponentError(req.Component, oerrors.ErrTemplateRender, err)
	}

	vars := templateVariables(tree.Descriptor, req.Variables)
	renderer := templates.NewRenderer(vars, templates.WithStrict(g.opts.Strict))

	files, err := renderer.RenderTree(tree)
	if err != nil {
		return nil, oerrors.NewComponentError(req.Component, oerrors.ErrTemplateRender, err)
	}

	written, err := templates.Write(req.TargetDir, files, templates.WriteOptions{Force: g.opts.Force})
	if err != nil {
		return nil, oerrors.NewComponentError(req.Component, oerrors.ErrHandlerExecution, err)
	}

	output.Debug("rendered template", "component", req.Component, "template", req.Template, "files", len(written.Files))
	return &Result{Files: written.Files, CreatedDir: written.CreatedDir}, nil
}

func (g *templateGenerator) nextSteps(req Request) []string {
	tree, err := g.opts.Store.Load(req.Template)
	if err != nil {
		return nil
	}
	vars := templateVariables(tree.Descriptor, req.Variables)
	return templates.NewRenderer(vars).RenderNextSteps(tree.Descriptor)
}

// templateVariables overlays vars on the template's declared defaults.
// Defaults may reference other variables, e.g. a title defaulting to
// {{project_name}}.
func templateVariables(desc templates.Descriptor, vars templates.Variables) templates.Variables {
	base := templates.NewRenderer(vars)
	defaults := make(templates.Variables)
	for name, value := range desc.Defaults() {
		if _, set := vars[name]; set {
			continue
		}
		rendered, err := base.RenderString(value)
		if err != nil {
			rendered = value
		}
		defaults[name] = rendered
	}
	return defaults.Merge(vars)
}
