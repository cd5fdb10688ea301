package project

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/templates"
)

// crateIdentRegex matches the crate identifiers the composer and the
// import rewriter accept.
var crateIdentRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError is one problem found in a project configuration.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("project configuration is invalid:")
	for _, err := range e {
		sb.WriteString("\n    ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// configurationError wraps validation errors as a configuration error.
func configurationError(errs ValidationErrors, location string) error {
	return &oerrors.DetailError{
		Type:     "invalid configuration",
		Message:  errs.Error(),
		Location: location,
		Hint:     "Fix the listed fields; nothing was written.",
		Cause:    oerrors.ErrConfiguration,
	}
}

// Validate checks the configuration without touching the filesystem.
// Every problem is reported, not just the first.
func (c *Config) Validate() error {
	if errs := c.validate(); len(errs) > 0 {
		return configurationError(errs, "")
	}
	return nil
}

func (c *Config) validate() ValidationErrors {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(c.ProjectName) == "" {
		add("project_name", "must not be empty")
	} else if templates.SnakeCase(c.ProjectName) == "" {
		add("project_name", "%q contains no letters or digits", c.ProjectName)
	}

	for key := range c.Variables {
		if key == "" {
			add("variables", "variable names must not be empty")
		}
	}

	if len(c.Components) == 0 {
		if c.Template == "" {
			add("components", "no components configured and no template given")
		} else if kind := templateKind(c.Template); !kind.Valid() {
			add("template", "%q does not start with a component kind (%s)", c.Template, kindList())
		} else if err := templates.ValidateComponentName(c.ProjectName); err != nil {
			add("project_name", "%v", err)
		} else if id := templates.Namespace(c.ProjectName, c.ProjectName); !crateIdentRegex.MatchString(id) {
			add("project_name", "crate name %q is not a valid identifier", id)
		}
		return errs
	}

	type claim struct {
		name string
		kind Kind
	}
	seen := make(map[string]claim)
	for _, kind := range sortedKinds(c.Components) {
		group := c.Components[kind]
		field := "components." + string(kind)

		if !kind.Valid() {
			add(field, "unknown component kind (expected one of %s)", kindList())
			continue
		}

		if kind.MultiInstance() {
			if len(group.Apps) != len(group.Frameworks) {
				add(field, "%d apps but %d frameworks; each app needs exactly one framework",
					len(group.Apps), len(group.Frameworks))
			}
		} else {
			if len(group.Apps) > 1 {
				add(field+".apps", "at most one %s component is allowed, got %d", kind, len(group.Apps))
			}
			if len(group.Frameworks) > 1 {
				add(field+".frameworks", "at most one framework is allowed, got %d", len(group.Frameworks))
			}
		}

		for i, fw := range group.Frameworks {
			if strings.TrimSpace(fw) == "" || strings.Contains(fw, "/") {
				add(fmt.Sprintf("%s.frameworks[%d]", field, i), "invalid framework %q", fw)
			}
		}

		for _, name := range instanceNames(kind, group) {
			if err := templates.ValidateComponentName(name); err != nil {
				add(field+".apps", "%v", err)
				continue
			}
			id := templates.Namespace(c.ProjectName, name)
			if !crateIdentRegex.MatchString(id) {
				add(field+".apps", "component %q would get crate name %q, which is not a valid identifier", name, id)
				continue
			}
			key := templates.SnakeCase(name)
			if other, dup := seen[key]; dup {
				if other.name == name {
					add(field+".apps", "component name %q is already used by %s", name, other.kind)
				} else {
					add(field+".apps", "component name %q clashes with %s %q: both become crate %s", name, other.kind, other.name, id)
				}
				continue
			}
			seen[key] = claim{name: name, kind: kind}
		}

		for key := range group.Variables {
			if key == "" {
				add(field+".variables", "variable names must not be empty")
			}
		}

		if group.UseShared != nil && *group.UseShared && kind != KindShared {
			if _, ok := c.Components[KindShared]; !ok {
				add(field+".use_shared", "set but no shared component is configured")
			}
		}
	}

	return errs
}

// Specs expands the configuration into the ordered list of components
// to generate. The configuration is validated first; an invalid
// configuration yields a configuration error and no components.
func (c *Config) Specs() ([]ComponentSpec, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if len(c.Components) == 0 {
		kind := templateKind(c.Template)
		return []ComponentSpec{{
			Kind:      kind,
			Name:      c.ProjectName,
			Framework: strings.TrimPrefix(strings.TrimPrefix(c.Template, string(kind)), "/"),
			Template:  c.Template,
			Variables: copyVars(c.Variables),
		}}, nil
	}

	sharedName := ""
	if group, ok := c.Components[KindShared]; ok {
		sharedName = instanceNames(KindShared, group)[0]
	}

	var specs []ComponentSpec
	for _, kind := range Kinds {
		group, ok := c.Components[kind]
		if !ok {
			continue
		}

		vars := copyVars(c.Variables)
		for k, v := range group.Variables {
			vars[k] = v
		}

		for i, name := range instanceNames(kind, group) {
			framework := ""
			if i < len(group.Frameworks) {
				framework = group.Frameworks[i]
			}

			spec := ComponentSpec{
				Kind:      kind,
				Name:      name,
				Framework: framework,
				Template:  TemplateName(kind, framework),
				Variables: copyVars(vars),
			}
			if sharedName != "" && kind != KindShared && usesShared(kind, group) {
				spec.DependsOn = []string{sharedName}
			}
			specs = append(specs, spec)
		}
	}

	return specs, nil
}

// SharedComponent returns the name of the shared component, if any.
func (c *Config) SharedComponent() (string, bool) {
	group, ok := c.Components[KindShared]
	if !ok {
		return "", false
	}
	return instanceNames(KindShared, group)[0], true
}

// instanceNames returns the component names of a group. A single-instance
// kind with no app name is named after the kind.
func instanceNames(kind Kind, group Group) []string {
	if !kind.MultiInstance() && len(group.Apps) == 0 {
		return []string{string(kind)}
	}
	return group.Apps
}

func usesShared(kind Kind, group Group) bool {
	if group.UseShared != nil {
		return *group.UseShared
	}
	return kind.usesSharedByDefault()
}

func templateKind(template string) Kind {
	kind, _, _ := strings.Cut(template, "/")
	return Kind(kind)
}

func sortedKinds(groups map[Kind]Group) []Kind {
	kinds := make([]Kind, 0, len(groups))
	for k := range groups {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func kindList() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func copyVars(vars map[string]string) map[string]string {
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out
}
