package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"gopkg.in/yaml.v3"

	oerrors "github.com/forgekit/forge/internal/errors"
)

// FSStore is a Store backed by an fs.FS. Every directory holding a
// manifest file (template.yaml, template.yml or template.json) is a
// template; its name is the directory path unless the manifest sets one.
type FSStore struct {
	fsys fs.FS
}

// NewFSStore creates a store over fsys.
func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

// NewDirStore creates a store over an on-disk templates directory.
func NewDirStore(dir string) (*FSStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening templates directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("templates directory %s is not a directory", dir)
	}
	return NewFSStore(os.DirFS(dir)), nil
}

// List returns every template descriptor sorted by name.
func (s *FSStore) List() ([]Descriptor, error) {
	var descriptors []Descriptor
	seen := make(map[string]string)

	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		desc, ok, err := s.readDescriptor(p)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if other, dup := seen[desc.Name]; dup {
			return fmt.Errorf("template %q defined twice: %s and %s", desc.Name, other, p)
		}
		seen[desc.Name] = p
		descriptors = append(descriptors, desc)

		// templates do not nest
		return fs.SkipDir
	})
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Name < descriptors[j].Name })
	return descriptors, nil
}

// Load returns the template tree for name. The manifest under name is read
// directly; other templates are only scanned when it is missing, so a
// broken manifest elsewhere in the store does not affect this one.
func (s *FSStore) Load(name string) (*Tree, error) {
	if fs.ValidPath(name) && name != "." {
		desc, ok, err := s.readDescriptor(name)
		if err != nil {
			return nil, err
		}
		if ok && desc.Name == name {
			return s.tree(desc)
		}
	}

	// a manifest may rename its template
	var found *Descriptor
	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		desc, ok, err := s.readDescriptor(p)
		if err != nil || !ok {
			return nil
		}
		if desc.Name == name {
			found = &desc
			return fs.SkipAll
		}
		return fs.SkipDir
	})
	if err != nil {
		return nil, fmt.Errorf("looking up template %s: %w", name, err)
	}
	if found == nil {
		return nil, oerrors.Wrap(oerrors.ErrNotFound, fmt.Sprintf("template %q", name))
	}
	return s.tree(*found)
}

func (s *FSStore) tree(desc Descriptor) (*Tree, error) {
	sub, err := fs.Sub(s.fsys, desc.Root)
	if err != nil {
		return nil, fmt.Errorf("opening template %s: %w", desc.Name, err)
	}
	return &Tree{Descriptor: desc, FS: sub}, nil
}

// readDescriptor reads the manifest in dir, if there is one.
func (s *FSStore) readDescriptor(dir string) (Descriptor, bool, error) {
	for _, name := range ManifestFiles {
		p := path.Join(dir, name)
		data, err := fs.ReadFile(s.fsys, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Descriptor{}, false, fmt.Errorf("reading %s: %w", p, err)
		}

		var desc Descriptor
		if err := yaml.Unmarshal(data, &desc); err != nil {
			return Descriptor{}, false, fmt.Errorf("parsing %s: %w", p, err)
		}
		desc.Root = dir
		if desc.Name == "" {
			desc.Name = dir
		}
		if desc.Name == "." {
			return Descriptor{}, false, fmt.Errorf("%s: a template at the store root needs a name", p)
		}
		return desc, true, nil
	}
	return Descriptor{}, false, nil
}
