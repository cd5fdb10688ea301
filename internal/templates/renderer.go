package templates

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
)

// placeholderRegex matches a {{name}} token. The inner text must be a
// single run of non-space, non-brace characters, so "{{ name }}" and the
// escaped braces of format strings ("{{}}") are never tokens.
var placeholderRegex = regexp.MustCompile(`\{\{([^{}\s]+)\}\}`)

// binarySniffLen is how much of a file is inspected for binary content.
const binarySniffLen = 8000

// Renderer substitutes {{name}} tokens with variable values.
type Renderer struct {
	vars   Variables
	strict bool
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithStrict makes unresolved placeholders an error instead of leaving
// them verbatim.
func WithStrict(strict bool) RendererOption {
	return func(r *Renderer) {
		r.strict = strict
	}
}

// NewRenderer creates a renderer for vars.
func NewRenderer(vars Variables, opts ...RendererOption) *Renderer {
	r := &Renderer{vars: vars.Clone()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// UnresolvedError lists placeholder names that had no value.
type UnresolvedError struct {
	Names []string
}

// Error implements the error interface.
func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved placeholders: %s", strings.Join(e.Names, ", "))
}

// RenderBytes substitutes every known placeholder in content. Unknown
// placeholders are left verbatim unless the renderer is strict.
// Substituted values are never rescanned.
func (r *Renderer) RenderBytes(content []byte) ([]byte, error) {
	var missing []string
	out := placeholderRegex.ReplaceAllFunc(content, func(tok []byte) []byte {
		key := string(tok[2 : len(tok)-2])
		if val, ok := r.vars[key]; ok {
			return []byte(val)
		}
		missing = append(missing, key)
		return tok
	})

	if r.strict && len(missing) > 0 {
		return nil, &UnresolvedError{Names: dedupe(missing)}
	}
	return out, nil
}

// RenderString renders a string.
func (r *Renderer) RenderString(s string) (string, error) {
	out, err := r.RenderBytes([]byte(s))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// RenderPath renders a slash-separated path segment by segment and strips
// a trailing .tmpl suffix from the file name.
func (r *Renderer) RenderPath(p string) (string, error) {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		rendered, err := r.RenderString(seg)
		if err != nil {
			return "", err
		}
		if rendered == "" || strings.Contains(rendered, "/") || rendered == ".." {
			return "", fmt.Errorf("path segment %q renders to invalid name %q", seg, rendered)
		}
		segments[i] = rendered
	}
	return strings.TrimSuffix(strings.Join(segments, "/"), ".tmpl"), nil
}

// Unresolved returns the sorted placeholder names in content with no value.
func (r *Renderer) Unresolved(content []byte) []string {
	var missing []string
	for _, m := range placeholderRegex.FindAllSubmatch(content, -1) {
		if _, ok := r.vars[string(m[1])]; !ok {
			missing = append(missing, string(m[1]))
		}
	}
	return dedupe(missing)
}

// RenderTree renders every file of tree. Manifest files and files matching
// the descriptor's skip globs are dropped; binary files and files matching
// its verbatim globs are copied unchanged.
func (r *Renderer) RenderTree(tree *Tree) ([]File, error) {
	var files []File

	err := fs.WalkDir(tree.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if isManifest(p) || matchAny(tree.Descriptor.Skip, p) {
			return nil
		}

		content, err := fs.ReadFile(tree.FS, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}

		target, err := r.RenderPath(p)
		if err != nil {
			return fmt.Errorf("rendering path %s: %w", p, err)
		}

		f := File{SourcePath: p, TargetPath: target, Mode: 0o644}
		if info, err := d.Info(); err == nil && info.Mode().Perm()&0o111 != 0 {
			f.Mode = 0o755
		}

		if IsBinary(content) || matchAny(tree.Descriptor.Verbatim, p) {
			f.Content = content
			f.Binary = true
		} else {
			rendered, err := r.RenderBytes(content)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", p, err)
			}
			f.Content = rendered
		}

		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking template %s: %w", tree.Descriptor.Name, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].TargetPath < files[j].TargetPath })
	return files, nil
}

// RenderNextSteps renders the descriptor's next steps. A step that fails to
// render is kept as written.
func (r *Renderer) RenderNextSteps(d Descriptor) []string {
	steps := make([]string, 0, len(d.NextSteps))
	for _, s := range d.NextSteps {
		rendered, err := r.RenderString(s)
		if err != nil {
			rendered = s
		}
		steps = append(steps, rendered)
	}
	return steps
}

// IsBinary reports whether content looks binary: a NUL byte in the first
// binarySniffLen bytes or invalid UTF-8.
func IsBinary(content []byte) bool {
	head := content
	if len(head) > binarySniffLen {
		head = dropPartialRune(head[:binarySniffLen])
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return true
	}
	return !utf8.Valid(head)
}

// dropPartialRune drops a trailing UTF-8 sequence cut off by truncation.
func dropPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			break
		}
	}
	return b
}

func isManifest(p string) bool {
	for _, name := range ManifestFiles {
		if p == name {
			return true
		}
	}
	return false
}

func matchAny(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
		// a bare file name pattern matches at any depth
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, path.Base(p)); ok {
				return true
			}
		}
	}
	return false
}

func dedupe(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
