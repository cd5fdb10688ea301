package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/testutil"
)

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()

	assert.Equal(t, "forge", root.Use)
	assert.True(t, root.SilenceUsage)
	assert.True(t, root.SilenceErrors)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"new", "list", "fix-imports", "config", "version"}, names)

	for _, flag := range []string{"config-file", "verbose", "timestamps"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRoot_InvalidSettingsFile(t *testing.T) {
	dir := t.TempDir()
	settings := testutil.WriteFile(t, dir, "settings.yaml", "workers: [not, a, number\n")

	testutil.CaptureOutput(t)
	root := NewRootCmd()
	root.SetArgs([]string{"--config-file", settings, "version"})

	err := root.Execute()
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitConfigurationError, oerrors.ExitCodeFromError(err))
	assert.ErrorIs(t, err, oerrors.ErrConfiguration)
}

func TestVersionCmd(t *testing.T) {
	cmd := NewVersionCmd(nil)
	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "forge v0.0.0-dev")
	assert.Contains(t, out, "CUE SDK")
}
