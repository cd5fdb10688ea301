// Package templates provides template stores, variable rendering and
// materialization of template trees onto disk.
package templates

import "io/fs"

// ManifestFiles are the template metadata file names, in lookup order.
// JSON is accepted because it is a subset of YAML.
var ManifestFiles = []string{"template.yaml", "template.yml", "template.json"}

// Variable is a variable a template declares it consumes.
type Variable struct {
	// Name is the variable key used inside {{...}} tokens.
	Name string `yaml:"name"`

	// Default is used when the caller supplies no value.
	Default string `yaml:"default"`

	// Description is shown by `forge list`.
	Description string `yaml:"description"`
}

// Descriptor is the read-only metadata of one template.
type Descriptor struct {
	// Name is the unique template key, e.g. "client/dioxus".
	Name string `yaml:"name"`

	// Description explains what the template generates.
	Description string `yaml:"description"`

	// Root is the template directory inside the store.
	Root string `yaml:"-"`

	// Variables are the variables the template declares.
	Variables []Variable `yaml:"variables"`

	// NextSteps are guidance lines, rendered with the component variables.
	NextSteps []string `yaml:"next_steps"`

	// Skip lists doublestar globs of files that are never materialized.
	Skip []string `yaml:"skip"`

	// Verbatim lists doublestar globs of files copied without substitution.
	Verbatim []string `yaml:"verbatim"`
}

// VariableNames returns the declared variable names in declaration order.
func (d Descriptor) VariableNames() []string {
	names := make([]string, 0, len(d.Variables))
	for _, v := range d.Variables {
		names = append(names, v.Name)
	}
	return names
}

// Defaults returns the declared variable defaults.
func (d Descriptor) Defaults() Variables {
	vars := make(Variables, len(d.Variables))
	for _, v := range d.Variables {
		if v.Default != "" {
			vars[v.Name] = v.Default
		}
	}
	return vars
}

// Tree is a loaded template: its descriptor and its files rooted at the
// template directory.
type Tree struct {
	Descriptor Descriptor
	FS         fs.FS
}

// File is one rendered file ready to be written.
type File struct {
	// SourcePath is the path within the template tree.
	SourcePath string

	// TargetPath is the rendered output path, relative to the component.
	TargetPath string

	// Content is the rendered content.
	Content []byte

	// Mode is the permission bits to write the file with.
	Mode fs.FileMode

	// Binary is set when the content was copied verbatim.
	Binary bool
}

// Store is a read-only template catalog.
type Store interface {
	// List returns every template descriptor, sorted by name.
	List() ([]Descriptor, error)

	// Load returns the template tree for name.
	Load(name string) (*Tree, error)
}
