package templates

import "sort"

// Well-known variable keys.
const (
	VarProjectName          = "project_name"
	VarProjectNameSnake     = "project_name_snake_case"
	VarProjectNamePascal    = "project_name_pascal_case"
	VarComponentName        = "component_name"
	VarComponentNameSnake   = "component_name_snake_case"
	VarComponentNamePascal  = "component_name_pascal_case"
	VarCrateName            = "crate_name"
	VarTemplate             = "template"
	VarSharedCrateName      = "shared_crate_name"
	VarComponentKind        = "component_kind"
	VarWorkspaceRelativeDir = "workspace_dir"
)

// Variables maps variable names to values. Keys are matched exactly.
type Variables map[string]string

// Clone returns a copy of v.
func (v Variables) Clone() Variables {
	out := make(Variables, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Merge returns a copy of v overlaid with each of others in order.
func (v Variables) Merge(others ...Variables) Variables {
	out := v.Clone()
	for _, o := range others {
		for k, val := range o {
			out[k] = val
		}
	}
	return out
}

// Keys returns the sorted variable names.
func (v Variables) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DeriveVariables computes the canonical variables of a component from the
// project and component names. The result is deterministic.
func DeriveVariables(project, component string) Variables {
	return Variables{
		VarProjectName:         project,
		VarProjectNameSnake:    SnakeCase(project),
		VarProjectNamePascal:   PascalCase(project),
		VarComponentName:       component,
		VarComponentNameSnake:  SnakeCase(component),
		VarComponentNamePascal: PascalCase(component),
		VarCrateName:           Namespace(project, component),
	}
}
