package cmd

import (
	"path/filepath"
	"testing"

	"github.com/forgekit/forge/internal/testutil"
)

const demoConfig = `{
  "project_name": "demo",
  "components": {
    "client": {"apps": ["web"], "frameworks": ["dioxus"]},
    "shared": {"apps": ["common"]}
  }
}`

// execute runs the root command with args and an isolated settings file.
// It returns what the command printed to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	stdout, _ := testutil.CaptureOutput(t)

	root := NewRootCmd()
	settings := filepath.Join(t.TempDir(), "settings.yaml")
	root.SetArgs(append([]string{"--config-file", settings}, args...))

	err := root.Execute()
	return stdout.String(), err
}
