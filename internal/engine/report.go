package engine

import (
	"github.com/forgekit/forge/internal/handler"
	"github.com/forgekit/forge/internal/project"
)

// Outcome is the overall result of a run.
type Outcome int

const (
	// OutcomeSucceeded means every component was generated, composed and
	// rewritten.
	OutcomeSucceeded Outcome = iota

	// OutcomePartial means at least one component failed; the others are
	// on disk and registered in the workspace.
	OutcomePartial

	// OutcomeAborted means the run stopped before writing anything.
	OutcomeAborted
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomePartial:
		return "partially succeeded"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Status is the state of one component.
type Status string

// Component statuses.
const (
	StatusPlanned   Status = "planned"
	StatusGenerated Status = "generated"
	StatusFailed    Status = "failed"
)

// ComponentReport is what happened to one component.
type ComponentReport struct {
	// Spec is the configured component.
	Spec project.ComponentSpec

	// Handler is the resolved handler, nil when resolution failed.
	Handler *handler.Handler

	// Identifier is the namespaced crate identifier.
	Identifier string

	// Dir is the component directory.
	Dir string

	// Status is the final state.
	Status Status

	// Files are the generated paths, relative to Dir.
	Files []string

	// NextSteps is the handler's guidance for this component.
	NextSteps []string

	// Errors are the failures attributed to this component, in phase order.
	Errors []error

	// Warnings are non-fatal notes, e.g. a dependency edge that was not
	// added because its target failed.
	Warnings []string

	// Rewrites is the number of rewritten import references.
	Rewrites int

	request handler.Request
}

// Generated reports whether the component's files are on disk.
func (c *ComponentReport) Generated() bool {
	return c.Status == StatusGenerated
}

func (c *ComponentReport) fail(err error) {
	c.Errors = append(c.Errors, err)
}

// Report is the aggregate result of a run.
type Report struct {
	// Project is the project name.
	Project string

	// Root is the workspace directory.
	Root string

	// DryRun is set when nothing was written.
	DryRun bool

	// Outcome is the overall result.
	Outcome Outcome

	// Err is the cause of an aborted run.
	Err error

	// Components are the component reports in configuration order.
	Components []*ComponentReport

	// Members are the workspace members after composition.
	Members []string
}

// Failures returns every recorded component failure.
func (r *Report) Failures() []error {
	var errs []error
	for _, c := range r.Components {
		errs = append(errs, c.Errors...)
	}
	return errs
}

// FailedComponents returns the components with at least one failure.
func (r *Report) FailedComponents() []*ComponentReport {
	var failed []*ComponentReport
	for _, c := range r.Components {
		if len(c.Errors) > 0 {
			failed = append(failed, c)
		}
	}
	return failed
}

// NextSteps returns the aggregated guidance of the generated components in
// configuration order.
func (r *Report) NextSteps() []string {
	var steps []string
	for _, c := range r.Components {
		steps = append(steps, c.NextSteps...)
	}
	return steps
}

func (r *Report) finish() {
	if r.Outcome == OutcomeAborted {
		return
	}
	r.Outcome = OutcomeSucceeded
	if len(r.Failures()) > 0 {
		r.Outcome = OutcomePartial
	}
}
