package workspace

import (
	"fmt"
	"path"
	"path/filepath"
	"sync"

	"github.com/forgekit/forge/internal/output"
	"github.com/forgekit/forge/internal/templates"
)

// Composer registers generated components in the workspace manifest at the
// project root. Edits are additive and idempotent, and calls are
// serialized, so a Composer may be shared between goroutines.
type Composer struct {
	mu      sync.Mutex
	root    string
	project string
}

// NewComposer creates a composer for the workspace rooted at root.
func NewComposer(root, project string) *Composer {
	return &Composer{root: root, project: project}
}

// Root returns the workspace directory.
func (c *Composer) Root() string {
	return c.root
}

// Identifier returns the namespaced crate identifier of a component.
func (c *Composer) Identifier(component string) string {
	return templates.Namespace(c.project, component)
}

// AddMember lists component (a directory relative to the root) as a
// workspace member and renames its package to the namespaced identifier.
// The root manifest is created when missing.
func (c *Composer) AddMember(component string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	root, err := c.loadRoot()
	if err != nil {
		return err
	}
	added, err := root.AddMember(memberPath(component))
	if err != nil {
		return err
	}
	if err := root.Save(); err != nil {
		return err
	}

	member, err := LoadManifest(c.manifestPath(component))
	if err != nil {
		return err
	}
	if member.Exists() {
		if _, err := member.SetPackageName(c.Identifier(component)); err != nil {
			return err
		}
		if err := member.Save(); err != nil {
			return err
		}
	}

	if added {
		output.Debug("added workspace member", "component", component, "crate", c.Identifier(component))
	}
	return nil
}

// AddDependency declares that from depends on to through a path
// dependency: the root [workspace.dependencies] gets an entry for to, and
// from's [dependencies] gets { path = "<relative path to to>" }.
func (c *Composer) AddDependency(from, to string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.Identifier(to)

	root, err := c.loadRoot()
	if err != nil {
		return err
	}
	if _, err := root.AddPathDependency(id, memberPath(to), "workspace", "dependencies"); err != nil {
		return err
	}

	member, err := LoadManifest(c.manifestPath(from))
	if err != nil {
		return err
	}
	if !member.Exists() {
		return manifestError(member.Path(), fmt.Errorf("component %s has no %s", from, ManifestFile))
	}

	rel, err := filepath.Rel(filepath.Join(c.root, from), filepath.Join(c.root, to))
	if err != nil {
		return manifestError(member.Path(), err)
	}
	added, err := member.AddPathDependency(id, filepath.ToSlash(rel), "dependencies")
	if err != nil {
		return err
	}

	if err := root.Save(); err != nil {
		return err
	}
	if err := member.Save(); err != nil {
		return err
	}

	if added {
		output.Debug("added workspace dependency", "from", from, "to", to, "crate", id)
	}
	return nil
}

// Members returns the members listed in the root manifest.
func (c *Composer) Members() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	root, err := LoadManifest(filepath.Join(c.root, ManifestFile))
	if err != nil {
		return nil, err
	}
	return root.Members(), nil
}

func (c *Composer) loadRoot() (*Manifest, error) {
	root, err := LoadManifest(filepath.Join(c.root, ManifestFile))
	if err != nil {
		return nil, err
	}
	if err := root.EnsureWorkspace(); err != nil {
		return nil, err
	}
	return root, nil
}

func (c *Composer) manifestPath(component string) string {
	return filepath.Join(c.root, filepath.FromSlash(component), ManifestFile)
}

// memberPath normalizes a component directory to the slash form used in
// manifests.
func memberPath(component string) string {
	return path.Clean(filepath.ToSlash(component))
}
