package imports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/fsutil"
	"github.com/forgekit/forge/internal/output"
)

// DefaultInclude selects the files a Rewriter scans.
var DefaultInclude = []string{"**/*.rs"}

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// leadingPathKeywords may directly precede a path that starts with "::".
// Any other identifier before "::" is a path segment.
var leadingPathKeywords = map[string]bool{
	"use": true, "pub": true, "as": true, "in": true, "impl": true,
	"dyn": true, "for": true, "where": true, "return": true, "let": true,
	"mut": true, "const": true, "static": true, "type": true, "match": true,
	"if": true, "else": true, "while": true, "loop": true, "move": true,
	"ref": true, "break": true, "unsafe": true, "async": true, "await": true,
}

// Reference is one occurrence of a short crate name in a source file.
type Reference struct {
	Name  string
	Start int
	End   int
	Line  int
}

// FindReferences returns the spans in src that refer to one of names as a
// crate: an identifier followed by "::" that does not continue a longer
// path, or the operand of "use" or "extern crate". A file that declares
// "mod <name>" refers to its own module by that name, so the name is
// ignored in that file.
func FindReferences(src []byte, names map[string]bool) []Reference {
	tokens := Scan(src)

	local := make(map[string]bool)
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].Kind == TokenIdent && tokens[i].Text == "mod" && tokens[i+1].Kind == TokenIdent {
			local[tokens[i+1].Text] = true
		}
	}

	var refs []Reference
	for i, tok := range tokens {
		if tok.Kind != TokenIdent || !names[tok.Text] || local[tok.Text] {
			continue
		}
		if isCrateReference(tokens, i) {
			refs = append(refs, Reference{Name: tok.Text, Start: tok.Start, End: tok.End, Line: tok.Line})
		}
	}
	return refs
}

func isCrateReference(tokens []Token, i int) bool {
	prev := func(n int) *Token {
		if i-n < 0 {
			return nil
		}
		return &tokens[i-n]
	}

	if p := prev(1); p != nil && p.Kind == TokenPathSep {
		// a::name or T>::name continue a longer path; a leading ::name
		// names an extern crate
		pp := prev(2)
		if pp == nil {
			return true
		}
		if pp.Text == ">" || (pp.Kind == TokenIdent && !leadingPathKeywords[pp.Text]) {
			return false
		}
		return true
	}

	// x.name::<T>() is a method call; 0..name::MAX is a range
	if p := prev(1); p != nil && p.Text == "." {
		if pp := prev(2); pp == nil || pp.Text != "." {
			return false
		}
	}

	if i+1 < len(tokens) && tokens[i+1].Kind == TokenPathSep {
		return true
	}

	if p := prev(1); p != nil && p.Kind == TokenIdent {
		if p.Text == "use" {
			return true
		}
		if pp := prev(2); p.Text == "crate" && pp != nil && pp.Text == "extern" {
			return true
		}
	}
	return false
}

// Rewriter renames crate references in source files according to a fixed
// mapping from short names to namespaced identifiers.
type Rewriter struct {
	mapping map[string]string
	names   map[string]bool
	include []string
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithInclude replaces the doublestar globs selecting files to rewrite.
func WithInclude(globs ...string) Option {
	return func(r *Rewriter) {
		r.include = globs
	}
}

// NewRewriter creates a rewriter for mapping. Identity entries are
// dropped. A target that is itself a short name is rejected, since a
// second pass would rewrite it again.
func NewRewriter(mapping map[string]string, opts ...Option) (*Rewriter, error) {
	r := &Rewriter{
		mapping: make(map[string]string, len(mapping)),
		names:   make(map[string]bool, len(mapping)),
		include: DefaultInclude,
	}
	for short, target := range mapping {
		if !identRegex.MatchString(short) {
			return nil, fmt.Errorf("invalid reference name %q", short)
		}
		if !identRegex.MatchString(target) {
			return nil, fmt.Errorf("invalid identifier %q for %q", target, short)
		}
		if short == target {
			continue
		}
		r.mapping[short] = target
		r.names[short] = true
	}
	for short, target := range r.mapping {
		if r.names[target] {
			return nil, fmt.Errorf("mapping %s -> %s is not idempotent: %s is also rewritten", short, target, target)
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RewriteSource rewrites every reference in src and returns the result and
// the number of replacements.
func (r *Rewriter) RewriteSource(src []byte) ([]byte, int) {
	if len(r.names) == 0 {
		return src, 0
	}
	refs := FindReferences(src, r.names)
	if len(refs) == 0 {
		return src, 0
	}

	out := make([]byte, 0, len(src)+len(refs)*16)
	last := 0
	for _, ref := range refs {
		out = append(out, src[last:ref.Start]...)
		out = append(out, r.mapping[ref.Name]...)
		last = ref.End
	}
	out = append(out, src[last:]...)
	return out, len(refs)
}

// FileResult reports the rewrite of one file.
type FileResult struct {
	// Path is relative to the rewritten directory.
	Path string

	// Replacements is the number of rewritten references.
	Replacements int
}

// Result reports a directory rewrite.
type Result struct {
	// Scanned is the number of files read.
	Scanned int

	// Changed lists the files that were rewritten, sorted by path.
	Changed []FileResult

	// Errors holds one *errors.FileError per file that could not be read
	// or written.
	Errors []error
}

// Replacements returns the total number of rewritten references.
func (r *Result) Replacements() int {
	n := 0
	for _, f := range r.Changed {
		n += f.Replacements
	}
	return n
}

// RewriteDir rewrites every included file under dir. A file that cannot be
// read or written is recorded in Result.Errors and does not stop the
// others. The returned error is reserved for failures to list dir.
func (r *Rewriter) RewriteDir(ctx context.Context, dir string) (*Result, error) {
	files, err := fsutil.FindFiles(dir, r.include)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", oerrors.ErrImportRewrite, dir, err)
	}

	result := &Result{}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, &oerrors.FileError{File: rel, Cause: err})
			continue
		}

		n, err := r.rewriteFile(filepath.Join(dir, filepath.FromSlash(rel)))
		result.Scanned++
		if err != nil {
			result.Errors = append(result.Errors, &oerrors.FileError{File: rel, Cause: err})
			continue
		}
		if n > 0 {
			result.Changed = append(result.Changed, FileResult{Path: rel, Replacements: n})
			output.Debug("rewrote imports", "file", rel, "replacements", n)
		}
	}

	sort.Slice(result.Changed, func(i, j int) bool { return result.Changed[i].Path < result.Changed[j].Path })
	return result, nil
}

func (r *Rewriter) rewriteFile(p string) (int, error) {
	info, err := os.Stat(p)
	if err != nil {
		return 0, err
	}
	src, err := os.ReadFile(p)
	if err != nil {
		return 0, err
	}

	out, n := r.RewriteSource(src)
	if n == 0 {
		return 0, nil
	}
	if err := fsutil.WriteFileAtomic(p, out, info.Mode().Perm()); err != nil {
		return 0, err
	}
	return n, nil
}
