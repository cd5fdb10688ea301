package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/handler"
	"github.com/forgekit/forge/internal/project"
	"github.com/forgekit/forge/internal/templates"
)

func readFile(t *testing.T, parts ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(parts...))
	require.NoError(t, err)
	return string(data)
}

func readManifest(t *testing.T, parts ...string) map[string]any {
	t.Helper()
	doc := make(map[string]any)
	require.NoError(t, toml.Unmarshal([]byte(readFile(t, parts...)), &doc))
	return doc
}

func newEngine(root string, store templates.Store) *Engine {
	return New(handler.DefaultRegistry(handler.Options{Store: store}), Options{Root: root, Workers: 2})
}

func webAndCommon() *project.Config {
	return &project.Config{
		ProjectName: "demo",
		Components: map[project.Kind]project.Group{
			project.KindClient: {Apps: []string{"web"}, Frameworks: []string{"dioxus"}},
			project.KindShared: {Apps: []string{"common"}},
		},
	}
}

func TestRun_EndToEnd(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")

	report, err := newEngine(root, templates.Builtin()).Run(context.Background(), webAndCommon())
	require.NoError(t, err)
	require.Empty(t, report.Failures())
	assert.Equal(t, OutcomeSucceeded, report.Outcome)

	// rendered files with the project name substituted
	assert.Contains(t, readFile(t, root, "web", "src", "main.rs"), `h1 { "demo" }`)
	assert.Contains(t, readFile(t, root, "common", "src", "lib.rs"), "Hello from demo")

	// workspace manifest
	rootManifest := readManifest(t, root, "Cargo.toml")
	ws := rootManifest["workspace"].(map[string]any)
	assert.Equal(t, []any{"common", "web"}, ws["members"])
	assert.Equal(t, []string{"common", "web"}, report.Members)

	webManifest := readManifest(t, root, "web", "Cargo.toml")
	assert.Equal(t, "demo_web", webManifest["package"].(map[string]any)["name"])
	deps := webManifest["dependencies"].(map[string]any)
	assert.Equal(t, map[string]any{"path": "../common"}, deps["demo_common"])

	commonManifest := readManifest(t, root, "common", "Cargo.toml")
	assert.Equal(t, "demo_common", commonManifest["package"].(map[string]any)["name"])

	// rewritten references
	main := readFile(t, root, "web", "src", "main.rs")
	assert.Contains(t, main, "use demo_common::greeting;")
	assert.NotContains(t, main, "shared::")

	// report details
	require.Len(t, report.Components, 2)
	common, web := report.Components[0], report.Components[1]
	assert.Equal(t, "common", common.Spec.Name)
	assert.Equal(t, "demo_common", common.Identifier)
	assert.Equal(t, "client", web.Handler.Name)
	assert.Equal(t, 1, web.Rewrites)
	assert.Contains(t, web.Files, "src/main.rs")
	assert.Contains(t, report.NextSteps(), "cd web && dx serve")
}

func TestRun_Rerun(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	e := newEngine(root, templates.Builtin())

	_, err := e.Run(context.Background(), webAndCommon())
	require.NoError(t, err)

	report, err := e.Run(context.Background(), webAndCommon())
	require.NoError(t, err)
	assert.Equal(t, OutcomePartial, report.Outcome, "existing components are not overwritten")
	for _, c := range report.Components {
		assert.True(t, errors.Is(c.Errors[0], oerrors.ErrHandlerExecution))
	}

	forced := New(handler.DefaultRegistry(handler.Options{Store: templates.Builtin(), Force: true}), Options{Root: root})
	report, err = forced.Run(context.Background(), webAndCommon())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSucceeded, report.Outcome)

	ws := readManifest(t, root, "Cargo.toml")["workspace"].(map[string]any)
	assert.Equal(t, []any{"common", "web"}, ws["members"], "members are not duplicated")
	assert.Contains(t, readFile(t, root, "web", "src", "main.rs"), "use demo_common::greeting;")
}

func TestRun_PartialFailure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	cfg := &project.Config{
		ProjectName: "demo",
		Components: map[project.Kind]project.Group{
			project.KindClient: {Apps: []string{"web"}, Frameworks: []string{"dioxus"}},
			project.KindServer: {Apps: []string{"api"}, Frameworks: []string{"nonexistent"}},
		},
	}

	report, err := newEngine(root, templates.Builtin()).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, OutcomePartial, report.Outcome)
	failures := report.Failures()
	require.Len(t, failures, 1)

	var ce *oerrors.ComponentError
	require.True(t, errors.As(failures[0], &ce))
	assert.Equal(t, "api", ce.Component)
	assert.True(t, errors.Is(failures[0], oerrors.ErrTemplateRender))

	assert.FileExists(t, filepath.Join(root, "web", "src", "main.rs"))
	assert.NoDirExists(t, filepath.Join(root, "api"))
	assert.Equal(t, []string{"web"}, report.Members)

	failed := report.FailedComponents()
	require.Len(t, failed, 1)
	assert.Equal(t, StatusFailed, failed[0].Status)
	assert.Empty(t, failed[0].NextSteps)
}

func TestRun_HandlerNotFound(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	store := templates.Builtin()
	registry := handler.NewRegistry(
		handler.NewTemplateHandler("client", "", []string{"client/*"}, handler.TemplateOptions{Store: store}),
	)
	cfg := &project.Config{
		ProjectName: "demo",
		Components: map[project.Kind]project.Group{
			project.KindClient: {Apps: []string{"web"}, Frameworks: []string{"leptos"}},
			project.KindServer: {Apps: []string{"api"}, Frameworks: []string{"axum"}},
		},
	}

	report, err := New(registry, Options{Root: root}).Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, report.Failures(), 1)
	assert.True(t, errors.Is(report.Failures()[0], oerrors.ErrHandlerNotFound))
	assert.Nil(t, report.Components[1].Handler)
	assert.FileExists(t, filepath.Join(root, "web", "index.html"))
}

func TestRun_SharedFailureSkipsEdges(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	store := templates.NewFSStore(fstest.MapFS{
		"client/dioxus/template.yaml":   {Data: []byte("description: x\n")},
		"client/dioxus/Cargo.toml.tmpl": {Data: []byte("[package]\nname = \"{{component_name}}\"\n")},
		"client/dioxus/src/main.rs":     {Data: []byte("use shared::x;\n")},
	})

	report, err := newEngine(root, store).Run(context.Background(), webAndCommon())
	require.NoError(t, err)

	assert.Equal(t, OutcomePartial, report.Outcome)
	require.Len(t, report.Failures(), 1)

	web := report.Components[1]
	assert.True(t, web.Generated())
	assert.Len(t, web.Warnings, 1)
	assert.Equal(t, "use shared::x;\n", readFile(t, root, "web", "src", "main.rs"))
	assert.Equal(t, []string{"web"}, report.Members)
}

func TestRun_ConfigurationErrorWritesNothing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	cfg := &project.Config{
		ProjectName: "demo",
		Components: map[project.Kind]project.Group{
			project.KindClient: {Apps: []string{"web", "admin"}, Frameworks: []string{"dioxus"}},
			project.KindShared: {},
		},
	}

	report, err := newEngine(root, templates.Builtin()).Run(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrConfiguration))
	assert.Equal(t, OutcomeAborted, report.Outcome)
	assert.Equal(t, err, report.Err)
	assert.Empty(t, report.Components)
	assert.NoDirExists(t, root)
}

func TestRun_RootIsFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	require.NoError(t, os.WriteFile(root, nil, 0o644))

	report, err := newEngine(root, templates.Builtin()).Run(context.Background(), webAndCommon())
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrConfiguration))
	assert.Equal(t, OutcomeAborted, report.Outcome)
}

func TestRun_DryRun(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	e := New(handler.DefaultRegistry(handler.Options{Store: templates.Builtin()}), Options{Root: root, DryRun: true})

	report, err := e.Run(context.Background(), webAndCommon())
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, OutcomeSucceeded, report.Outcome)
	for _, c := range report.Components {
		assert.Equal(t, StatusPlanned, c.Status)
		assert.NotNil(t, c.Handler)
	}
	assert.NoDirExists(t, root)
}

func TestRun_Cancelled(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newEngine(root, templates.Builtin()).Run(ctx, webAndCommon())
	require.NoError(t, err)

	assert.Equal(t, OutcomePartial, report.Outcome)
	for _, c := range report.Components {
		assert.Equal(t, StatusFailed, c.Status)
		assert.True(t, errors.Is(c.Errors[0], context.Canceled))
	}
	assert.NoFileExists(t, filepath.Join(root, "Cargo.toml"))
}

func TestRun_ManyComponents(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	cfg := &project.Config{
		ProjectName: "demo",
		Components: map[project.Kind]project.Group{
			project.KindShared:      {},
			project.KindClient:      {Apps: []string{"web", "admin"}, Frameworks: []string{"dioxus", "leptos"}},
			project.KindServer:      {Apps: []string{"api"}, Frameworks: []string{"axum"}},
			project.KindEdge:        {Apps: []string{"worker"}, Frameworks: []string{"cloudflare"}},
			project.KindServerless:  {Apps: []string{"jobs"}, Frameworks: []string{"lambda"}},
			project.KindDataScience: {Apps: []string{"lab"}, Frameworks: []string{"polars"}},
			project.KindEmbedded:    {Apps: []string{"fw"}, Frameworks: []string{"embassy"}},
			project.KindLibrary:     {Apps: []string{"utils"}},
		},
	}

	report, err := newEngine(root, templates.Builtin()).Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Empty(t, report.Failures())

	assert.Equal(t, []string{"shared", "utils", "web", "admin", "api", "worker", "jobs", "lab", "fw"}, report.Members)
	for _, name := range []string{"web", "admin", "api", "worker", "jobs"} {
		manifest := readManifest(t, root, name, "Cargo.toml")
		deps := manifest["dependencies"].(map[string]any)
		assert.Contains(t, deps, "demo_shared", "%s depends on the shared crate", name)
	}
	assert.Contains(t, readFile(t, root, "api", "src", "main.rs"), "Json<demo_shared::Greeting>")
	labDeps := readManifest(t, root, "lab", "Cargo.toml")["dependencies"].(map[string]any)
	assert.NotContains(t, labDeps, "demo_shared")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "succeeded", OutcomeSucceeded.String())
	assert.Equal(t, "partially succeeded", OutcomePartial.String())
	assert.Equal(t, "aborted", OutcomeAborted.String())
	assert.Equal(t, "unknown", Outcome(9).String())
}
