package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/testutil"
)

func TestList_Builtin(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)

	for _, want := range []string{"Templates", "client/dioxus", "server/axum", "shared", "Handlers", "dioxus-cli", "external-tool", "client/*"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "variables: title")
	assert.NotContains(t, out, "missing", "tools are only detected with --tools")
}

func TestList_TemplatesDir(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"acme/template.yaml": "name: library/acme\ndescription: ACME library\n",
	})

	out, err := execute(t, "list", "--templates-dir", dir)
	require.NoError(t, err)

	templatesSection, handlersSection, ok := strings.Cut(out, "Handlers")
	require.True(t, ok)
	assert.Contains(t, templatesSection, "library/acme")
	assert.Contains(t, templatesSection, "ACME library")
	assert.NotContains(t, templatesSection, "client/dioxus", "built-in templates are replaced by the directory")
	assert.Contains(t, handlersSection, "dioxus-cli")
}

func TestList_TemplatesDirMissing(t *testing.T) {
	_, err := execute(t, "list", "--templates-dir", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
}
