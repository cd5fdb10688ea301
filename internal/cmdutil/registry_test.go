package cmdutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgekit/forge/internal/config"
	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/handler"
	"github.com/forgekit/forge/internal/testutil"
)

func TestOpenStore_Builtin(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := OpenStore(config.DefaultSettings())
	require.NoError(t, err)

	_, err = store.Load("client/dioxus")
	assert.NoError(t, err)
}

func TestOpenStore_Dir(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "server/warp/template.yaml", "description: warp\n")

	store, err := OpenStore(&config.Settings{TemplatesDir: dir})
	require.NoError(t, err)

	descs, err := store.List()
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "server/warp", descs[0].Name)
}

func TestOpenStore_UserCatalog(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	testutil.WriteFile(t, filepath.Join(home, ".forge", "templates"), "client/yew/template.yaml", "description: yew\n")

	store, err := OpenStore(config.DefaultSettings())
	require.NoError(t, err)

	descs, err := store.List()
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "client/yew", descs[0].Name)

	// an explicit directory wins over the user catalog
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "server/warp/template.yaml", "description: warp\n")
	store, err = OpenStore(&config.Settings{TemplatesDir: dir})
	require.NoError(t, err)
	descs, err = store.List()
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "server/warp", descs[0].Name)
}

func TestOpenStore_Missing(t *testing.T) {
	_, err := OpenStore(&config.Settings{TemplatesDir: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}

func TestNewRegistry(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	registry, err := NewRegistry(config.DefaultSettings(), handler.Options{})
	require.NoError(t, err)

	h, err := registry.Resolve(handler.Selection{Template: "client/dioxus"})
	require.NoError(t, err)
	assert.Equal(t, "client", h.Name)

	h, err = registry.Resolve(handler.Selection{Template: "client/dioxus", ExternalTools: true})
	require.NoError(t, err)
	assert.Equal(t, "dioxus-cli", h.Name)
}
