// Package handler resolves which generator produces each component and
// runs it.
package handler

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/forgekit/forge/internal/templates"
)

// Kind is the generation strategy of a handler. The set is closed.
type Kind int

const (
	// KindTemplate renders a template tree from the template store.
	KindTemplate Kind = iota + 1

	// KindExternalTool runs a framework's own scaffolding CLI.
	KindExternalTool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTemplate:
		return "template"
	case KindExternalTool:
		return "external-tool"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Selection is everything resolution may inspect.
type Selection struct {
	// Template is the template identifier, e.g. "client/dioxus".
	Template string

	// ExternalTools reports whether the configuration allows shelling out.
	ExternalTools bool
}

// Request describes one component to generate.
type Request struct {
	// Component is the component name.
	Component string

	// Template is the template identifier.
	Template string

	// TargetDir is the component directory.
	TargetDir string

	// Variables are the component's render variables.
	Variables templates.Variables
}

// Result reports what a handler produced.
type Result struct {
	// Files are the generated paths, relative to the target directory.
	Files []string

	// CreatedDir is set when the handler created the target directory.
	CreatedDir bool
}

// Handler generates components for the templates it applies to.
// Exactly one of template or tool is set, matching Kind.
type Handler struct {
	Name        string
	Description string
	Kind        Kind

	// Templates are doublestar patterns over template identifiers.
	Templates []string

	template *templateGenerator
	tool     *toolGenerator
}

// Applies reports whether h generates sel.Template. It never mutates its
// arguments or h.
func (h *Handler) Applies(sel Selection) bool {
	if !matchTemplate(h.Templates, sel.Template) {
		return false
	}
	switch h.Kind {
	case KindTemplate:
		return true
	case KindExternalTool:
		return sel.ExternalTools
	default:
		return false
	}
}

// Initialize generates the component described by req.
func (h *Handler) Initialize(ctx context.Context, req Request) (*Result, error) {
	switch h.Kind {
	case KindTemplate:
		return h.template.initialize(ctx, req)
	case KindExternalTool:
		return h.tool.initialize(ctx, req)
	default:
		return nil, fmt.Errorf("handler %s has unknown kind %v", h.Name, h.Kind)
	}
}

// NextSteps returns follow-up guidance for a generated component. It never
// fails; a handler with nothing to say returns an empty slice.
func (h *Handler) NextSteps(req Request) []string {
	var steps []string
	switch h.Kind {
	case KindTemplate:
		steps = h.template.nextSteps(req)
	case KindExternalTool:
		steps = h.tool.nextSteps(req)
	}
	if steps == nil {
		return []string{}
	}
	return steps
}

// String returns a short description for logs.
func (h *Handler) String() string {
	return fmt.Sprintf("%s (%s)", h.Name, h.Kind)
}

func matchTemplate(patterns []string, name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || path.Clean(name) != name {
		return false
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
