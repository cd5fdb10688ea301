package cmdutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/forgekit/forge/internal/engine"
	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/output"
)

// FormatReport renders the per-component status lines, the file tree of
// each generated component, the summary and the aggregated next steps.
func FormatReport(r *engine.Report) string {
	var sb strings.Builder

	for _, c := range r.Components {
		sb.WriteString(output.FormatComponentLine(string(c.Spec.Kind), c.Spec.Name, string(c.Status)))
		if c.Handler != nil {
			sb.WriteString(output.StyleDim.Render("  (" + c.Handler.Name + ")"))
		}
		sb.WriteString("\n")

		if c.Generated() && len(c.Files) > 0 {
			sb.WriteString(indent(output.RenderSimpleTree(c.Spec.Name, c.Files), "    "))
		}
		for _, w := range c.Warnings {
			sb.WriteString(output.StyleDim.Render("    warning: " + w))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(summary(r))
	sb.WriteString("\n")

	if steps := r.NextSteps(); len(steps) > 0 && !r.DryRun {
		sb.WriteString("\nNext steps:\n")
		for _, s := range steps {
			sb.WriteString("  ")
			sb.WriteString(s)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func summary(r *engine.Report) string {
	total := len(r.Components)
	switch {
	case r.DryRun:
		return output.StyleSummary.Render(fmt.Sprintf("Dry run: %d components planned for %s in %s", total, r.Project, r.Root))
	case r.Outcome == engine.OutcomeSucceeded:
		return output.FormatCheckmark(output.StyleSummary.Render(
			fmt.Sprintf("Project %s created in %s (%d components)", r.Project, r.Root, total)))
	default:
		failed := len(r.FailedComponents())
		return output.StyleSummary.Render(
			fmt.Sprintf("Project %s %s: %d of %d components failed", r.Project, r.Outcome, failed, total))
	}
}

// PrintFailures logs every component failure at error level, one line per
// failure, with the failure kind when it is known.
func PrintFailures(r *engine.Report) {
	for _, err := range r.Failures() {
		var ce *oerrors.ComponentError
		if errors.As(err, &ce) {
			if ce.Cause != nil {
				output.Error(fmt.Sprintf("component %q: %v", ce.Component, ce.Kind), "error", ce.Cause)
			} else {
				output.Error(fmt.Sprintf("component %q: %v", ce.Component, ce.Kind))
			}
			continue
		}
		output.Error(err.Error())
	}
}

// ReportExitError maps a finished report to the command's error: nil on
// success, an already printed ExitError with ExitPartialFailure otherwise.
func ReportExitError(r *engine.Report) error {
	if r.Outcome == engine.OutcomeSucceeded {
		return nil
	}
	return &oerrors.ExitError{
		Code:    oerrors.ExitPartialFailure,
		Err:     fmt.Errorf("%d of %d components failed", len(r.FailedComponents()), len(r.Components)),
		Printed: true,
	}
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		sb.WriteString(prefix)
		sb.WriteString(l)
	}
	return sb.String()
}
