package imports

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/forgekit/forge/internal/errors"
)

func newRewriter(t *testing.T) *Rewriter {
	t.Helper()
	r, err := NewRewriter(map[string]string{"shared": "demo_common"})
	require.NoError(t, err)
	return r
}

func TestRewriteSource(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
		n    int
	}{
		{"use path", "use shared::Greeting;", "use demo_common::Greeting;", 1},
		{"use group", "use shared::{a, b};", "use demo_common::{a, b};", 1},
		{"use crate", "use shared;", "use demo_common;", 1},
		{"use alias", "pub use shared as common;", "pub use demo_common as common;", 1},
		{"extern crate", "extern crate shared;", "extern crate demo_common;", 1},
		{"leading path sep", "use ::shared::x;", "use ::demo_common::x;", 1},
		{"expression path", "let g = shared::greeting(\"x\");", "let g = demo_common::greeting(\"x\");", 1},
		{"generic argument", "Json<shared::Greeting>", "Json<demo_common::Greeting>", 1},
		{"attribute", "#[shared::route]", "#[demo_common::route]", 1},
		{"range bound", "for i in 0..shared::MAX {}", "for i in 0..demo_common::MAX {}", 1},
		{"several", "use shared::a;\nfn f() { shared::b(); }", "use demo_common::a;\nfn f() { demo_common::b(); }", 2},

		{"substring prefix", "use shared_utils::x;", "use shared_utils::x;", 0},
		{"substring suffix", "use my_shared::x;", "use my_shared::x;", 0},
		{"local variable", "let shared = 1; shared + 1", "let shared = 1; shared + 1", 0},
		{"field", "self.shared.get()", "self.shared.get()", 0},
		{"method turbofish", "s.shared::<u8>()", "s.shared::<u8>()", 0},
		{"chained method turbofish", "v.iter().shared::<Vec<_>>()", "v.iter().shared::<Vec<_>>()", 0},
		{"nested module path", "use crate::shared::x;", "use crate::shared::x;", 0},
		{"super path", "super::shared::x()", "super::shared::x()", 0},
		{"associated item", "Config::shared::x", "Config::shared::x", 0},
		{"string literal", `println!("use shared::x");`, `println!("use shared::x");`, 0},
		{"comment", "// shared::x", "// shared::x", 0},
		{"lifetime", "fn f<'shared>()", "fn f<'shared>()", 0},
		{"local module", "mod shared;\nuse shared::x;", "mod shared;\nuse shared::x;", 0},
		{"already namespaced", "use demo_common::x;", "use demo_common::x;", 0},
	}

	r := newRewriter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, n := r.RewriteSource([]byte(tt.src))
			assert.Equal(t, tt.want, string(out))
			assert.Equal(t, tt.n, n)
		})
	}
}

func TestRewriteSource_Idempotent(t *testing.T) {
	r := newRewriter(t)
	src := []byte("use shared::Greeting;\nfn main() { let g: shared::Greeting = shared::greeting(\"w\"); }\n")

	once, n := r.RewriteSource(src)
	require.Equal(t, 3, n)

	twice, n := r.RewriteSource(once)
	assert.Equal(t, 0, n)
	assert.Equal(t, string(once), string(twice))
}

func TestNewRewriter_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mapping map[string]string
		wantErr string
	}{
		{"chained targets", map[string]string{"a": "b", "b": "c"}, "not idempotent"},
		{"invalid short name", map[string]string{"a-b": "c"}, "invalid reference name"},
		{"invalid target", map[string]string{"a": "my-crate"}, "invalid identifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRewriter(tt.mapping)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	r, err := NewRewriter(map[string]string{"shared": "shared"})
	require.NoError(t, err)
	out, n := r.RewriteSource([]byte("use shared::x;"))
	assert.Equal(t, 0, n)
	assert.Equal(t, "use shared::x;", string(out))
}

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestRewriteDir(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/main.rs":         "use shared::greeting;\nfn main() { shared::run(); }\n",
		"src/util.rs":         "pub fn nothing() {}\n",
		"src/bin/tool.rs":     "use shared::x;\n",
		"Cargo.toml":          "[dependencies]\nshared = { path = \"../shared\" }\n",
		"target/debug/gen.rs": "use shared::x;\n",
	})

	result, err := newRewriter(t).RewriteDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Scanned)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []FileResult{
		{Path: "src/bin/tool.rs", Replacements: 1},
		{Path: "src/main.rs", Replacements: 2},
	}, result.Changed)
	assert.Equal(t, 3, result.Replacements())

	main, err := os.ReadFile(filepath.Join(dir, "src", "main.rs"))
	require.NoError(t, err)
	assert.Equal(t, "use demo_common::greeting;\nfn main() { demo_common::run(); }\n", string(main))

	manifest, err := os.ReadFile(filepath.Join(dir, "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "shared = ", "non-Rust files are not touched")

	generated, err := os.ReadFile(filepath.Join(dir, "target", "debug", "gen.rs"))
	require.NoError(t, err)
	assert.Equal(t, "use shared::x;\n", string(generated), "build output is skipped")

	again, err := newRewriter(t).RewriteDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, again.Changed)
}

func TestRewriteDir_PerFileErrors(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/a.rs": "use shared::x;\n",
		"src/b.rs": "use shared::y;\n",
	})
	locked := filepath.Join(dir, "src", "a.rs")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	result, err := newRewriter(t).RewriteDir(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.True(t, errors.Is(result.Errors[0], oerrors.ErrImportRewrite))
	var fe *oerrors.FileError
	require.True(t, errors.As(result.Errors[0], &fe))
	assert.Equal(t, "src/a.rs", fe.File)

	assert.Equal(t, []FileResult{{Path: "src/b.rs", Replacements: 1}}, result.Changed)
}

func TestRewriteDir_Include(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/lib.rs":     "use shared::x;\n",
		"examples/ex.rs": "use shared::x;\n",
	})

	r, err := NewRewriter(map[string]string{"shared": "demo_common"}, WithInclude("src/**/*.rs"))
	require.NoError(t, err)

	result, err := r.RewriteDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []FileResult{{Path: "src/lib.rs", Replacements: 1}}, result.Changed)
}

func TestRewriteDir_MissingDir(t *testing.T) {
	_, err := newRewriter(t).RewriteDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrImportRewrite))
}
