package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgekit/forge/internal/config"
	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/testutil"
)

func TestConfigInit(t *testing.T) {
	testutil.CaptureOutput(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	run := func(args ...string) error {
		root := NewRootCmd()
		root.SetArgs(append([]string{"--config-file", path, "config", "init"}, args...))
		return root.Execute()
	}

	require.NoError(t, run())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# forge settings")
	assert.Contains(t, string(data), "workers: 4")

	// the written file loads back to the defaults
	s, err := config.NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultWorkers, s.Workers)
	assert.Equal(t, config.DefaultToolTimeout, s.ToolTimeout)
	require.NotNil(t, s.Log.Timestamps)
	assert.True(t, *s.Log.Timestamps)

	err = run()
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitGeneralError, oerrors.ExitCodeFromError(err))
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, run("--force"))
}

func TestConfigVet(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testutil.WriteFile(t, dir, "config.json", demoConfig)

	out, err := execute(t, "config", "vet", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "shared/common")
	assert.Contains(t, out, "client/web")
	assert.Contains(t, out, "client/dioxus -> common")
	assert.Contains(t, out, "is valid (2 components)")
	assert.NotContains(t, out, "project_name:")

	out, err = execute(t, "config", "vet", cfgPath, "--print")
	require.NoError(t, err)
	assert.Contains(t, out, "project_name: demo")
}

func TestConfigVet_ReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testutil.WriteFile(t, dir, "config.yaml", `project_name: demo
components:
  client:
    apps: [web, admin]
    frameworks: [dioxus]
  server:
    apps: [web]
    frameworks: [axum]
`)

	_, err := execute(t, "config", "vet", cfgPath)
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitConfigurationError, oerrors.ExitCodeFromError(err))
	assert.Contains(t, err.Error(), "each app needs exactly one framework")
	assert.Contains(t, err.Error(), "already used")
}

func TestConfigVet_UnknownKind(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testutil.WriteFile(t, dir, "config.json", `{"project_name": "demo", "components": {"desktop": {"apps": ["x"]}}}`)

	_, err := execute(t, "config", "vet", cfgPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrConfiguration)
}
