// Package project models the project configuration document: which
// components to generate, with which frameworks, and how they share code.
package project

// Kind is a component kind.
type Kind string

// Component kinds.
const (
	KindShared      Kind = "shared"
	KindLibrary     Kind = "library"
	KindClient      Kind = "client"
	KindServer      Kind = "server"
	KindEdge        Kind = "edge"
	KindServerless  Kind = "serverless"
	KindDataScience Kind = "data-science"
	KindEmbedded    Kind = "embedded"
	KindMinimal     Kind = "minimal"
)

// Kinds lists every kind in expansion order. Shared code comes first so
// components that depend on it follow their dependency.
var Kinds = []Kind{
	KindShared,
	KindLibrary,
	KindClient,
	KindServer,
	KindEdge,
	KindServerless,
	KindDataScience,
	KindEmbedded,
	KindMinimal,
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// MultiInstance reports whether a project may hold several components of
// kind k. Multi-instance kinds pair apps and frameworks by position.
func (k Kind) MultiInstance() bool {
	switch k {
	case KindShared, KindLibrary, KindMinimal:
		return false
	default:
		return true
	}
}

// usesSharedByDefault reports whether components of kind k depend on the
// shared component unless told otherwise.
func (k Kind) usesSharedByDefault() bool {
	switch k {
	case KindClient, KindServer, KindEdge, KindServerless:
		return true
	default:
		return false
	}
}

// Group is the configuration of one component kind.
type Group struct {
	// Apps are the component instance names.
	Apps []string `json:"apps,omitempty"`

	// Frameworks are the framework choices, paired with Apps by position.
	Frameworks []string `json:"frameworks,omitempty"`

	// Variables are extra template variables for every component of the kind.
	Variables map[string]string `json:"variables,omitempty"`

	// UseShared overrides whether the components depend on the shared
	// component.
	UseShared *bool `json:"use_shared,omitempty"`
}

// Config is the project configuration document.
type Config struct {
	// ProjectName names the workspace and prefixes every crate identifier.
	ProjectName string `json:"project_name"`

	// Template generates a single component named after the project when
	// Components is empty.
	Template string `json:"template,omitempty"`

	// ExternalTools allows handlers that shell out to framework CLIs.
	ExternalTools bool `json:"external_tools,omitempty"`

	// Variables are extra template variables for every component.
	Variables map[string]string `json:"variables,omitempty"`

	// Components maps a kind to its configuration.
	Components map[Kind]Group `json:"components,omitempty"`
}

// ComponentSpec is one component to generate. It is immutable once
// produced by Config.Components.
type ComponentSpec struct {
	// Kind is the component kind.
	Kind Kind

	// Name is the instance name and the component directory.
	Name string

	// Framework is the chosen framework, empty when the kind has none.
	Framework string

	// Template is the template identifier: "kind/framework", or the kind
	// alone.
	Template string

	// Variables are the configured variables: project-level overlaid by
	// kind-level.
	Variables map[string]string

	// DependsOn lists the names of components this one depends on.
	DependsOn []string
}

// TemplateName returns the template identifier for a kind and framework.
func TemplateName(kind Kind, framework string) string {
	if framework == "" {
		return string(kind)
	}
	return string(kind) + "/" + framework
}
