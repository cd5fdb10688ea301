// Package workspace edits the Cargo workspace manifest that ties generated
// components together.
package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/fsutil"
)

// ManifestFile is the manifest file name of the workspace and its members.
const ManifestFile = "Cargo.toml"

// Manifest is a Cargo.toml document held as a generic tree, so keys forge
// does not own survive a load/save round trip.
type Manifest struct {
	path    string
	doc     map[string]any
	exists  bool
	changed bool
}

// LoadManifest reads the manifest at path. A missing file yields an empty
// manifest that is created on Save.
func LoadManifest(path string) (*Manifest, error) {
	m := &Manifest{path: path, doc: make(map[string]any)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, manifestError(path, err)
	}

	if err := toml.Unmarshal(data, &m.doc); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, manifestError(path, fmt.Errorf("line %d, column %d: %w", row, col, err))
		}
		return nil, manifestError(path, err)
	}
	if m.doc == nil {
		m.doc = make(map[string]any)
	}
	m.exists = true
	return m, nil
}

// Path returns the manifest file path.
func (m *Manifest) Path() string {
	return m.path
}

// Exists reports whether the manifest was read from disk.
func (m *Manifest) Exists() bool {
	return m.exists
}

// Changed reports whether the manifest has unsaved edits.
func (m *Manifest) Changed() bool {
	return m.changed
}

// Save writes the manifest if it changed.
func (m *Manifest) Save() error {
	if !m.changed {
		return nil
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(false)
	if err := enc.Encode(m.doc); err != nil {
		return manifestError(m.path, fmt.Errorf("encoding: %w", err))
	}
	if err := fsutil.WriteFileAtomic(m.path, buf.Bytes(), 0o644); err != nil {
		return manifestError(m.path, err)
	}
	m.exists = true
	m.changed = false
	return nil
}

// Bytes returns the encoded manifest.
func (m *Manifest) Bytes() ([]byte, error) {
	return toml.Marshal(m.doc)
}

// EnsureWorkspace adds an empty [workspace] table using the version 2
// feature resolver when the manifest has none.
func (m *Manifest) EnsureWorkspace() error {
	if _, ok := m.doc["workspace"]; ok {
		_, err := m.table("workspace")
		return err
	}
	ws, err := m.table("workspace")
	if err != nil {
		return err
	}
	ws["resolver"] = "2"
	ws["members"] = []any{}
	m.changed = true
	return nil
}

// Members returns the workspace members in manifest order.
func (m *Manifest) Members() []string {
	ws, ok := m.doc["workspace"].(map[string]any)
	if !ok {
		return nil
	}
	return stringSlice(ws["members"])
}

// AddMember appends member to [workspace].members. Adding a member that is
// already listed is a no-op; it reports whether the manifest changed.
func (m *Manifest) AddMember(member string) (bool, error) {
	ws, err := m.table("workspace")
	if err != nil {
		return false, err
	}

	var members []any
	switch v := ws["members"].(type) {
	case nil:
	case []any:
		members = v
	default:
		return false, manifestError(m.path, fmt.Errorf("workspace.members is a %T, not an array", v))
	}

	for _, existing := range members {
		if s, ok := existing.(string); ok && s == member {
			return false, nil
		}
	}

	ws["members"] = append(members, member)
	m.changed = true
	return true, nil
}

// Dependency returns the dependency entry name in the table at keys.
func (m *Manifest) Dependency(name string, keys ...string) (any, bool) {
	var cur any = m.doc
	for _, k := range keys {
		t, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur = t[k]
	}
	t, ok := cur.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := t[name]
	return v, ok
}

// AddPathDependency adds name = { path = "<path>" } to the table at keys,
// e.g. ("dependencies") or ("workspace", "dependencies"). An existing entry
// for name is left untouched; it reports whether the manifest changed.
func (m *Manifest) AddPathDependency(name, path string, keys ...string) (bool, error) {
	t, err := m.table(keys...)
	if err != nil {
		return false, err
	}
	if _, ok := t[name]; ok {
		return false, nil
	}
	t[name] = map[string]any{"path": path}
	m.changed = true
	return true, nil
}

// PackageName returns [package].name.
func (m *Manifest) PackageName() string {
	pkg, ok := m.doc["package"].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := pkg["name"].(string)
	return name
}

// SetPackageName sets [package].name, creating the table if needed. It
// reports whether the manifest changed.
func (m *Manifest) SetPackageName(name string) (bool, error) {
	pkg, err := m.table("package")
	if err != nil {
		return false, err
	}
	if current, _ := pkg["name"].(string); current == name {
		return false, nil
	}
	pkg["name"] = name
	m.changed = true
	return true, nil
}

// table returns the table at keys, creating missing tables.
func (m *Manifest) table(keys ...string) (map[string]any, error) {
	cur := m.doc
	for i, k := range keys {
		switch v := cur[k].(type) {
		case nil:
			next := make(map[string]any)
			cur[k] = next
			m.changed = true
			cur = next
		case map[string]any:
			cur = v
		default:
			return nil, manifestError(m.path, fmt.Errorf("%s is a %T, not a table", strings.Join(keys[:i+1], "."), v))
		}
	}
	return cur, nil
}

func manifestError(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", oerrors.ErrManifestEdit, path, err)
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
