package handler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/fsutil"
	"github.com/forgekit/forge/internal/output"
	"github.com/forgekit/forge/internal/templates"
)

// versionRegex matches version output like "dioxus 0.6.3" or "v1.2.3-rc.1".
var versionRegex = regexp.MustCompile(`v?\d+\.\d+\.\d+(?:-[a-zA-Z0-9.]+)?`)

// outputTailLen bounds how much tool output is quoted in errors.
const outputTailLen = 2048

// Runner runs a program in dir and returns its combined output.
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// ToolSpec describes an external scaffolding CLI.
type ToolSpec struct {
	// Binary must be on PATH for the tool to run, e.g. "cargo-tauri".
	Binary string

	// Command is the program and its arguments. Each element is rendered
	// with the component variables before running.
	Command []string

	// VersionCommand prints the tool version; it doubles as the
	// installation check.
	VersionCommand []string

	// InPlace runs the tool inside the target directory, which forge
	// creates. Otherwise the tool runs in the parent and must create the
	// target directory itself.
	InPlace bool

	// Defaults fill variables the command needs but the caller did not set.
	Defaults templates.Variables

	// InstallHint tells the user how to install the tool.
	InstallHint string

	// NextSteps are rendered with the component variables.
	NextSteps []string
}

// ToolOptions configures how external tools run.
type ToolOptions struct {
	// Timeout bounds each tool invocation. Zero means no timeout.
	Timeout time.Duration

	// Force allows running into a non-empty target directory.
	Force bool

	// Runner runs commands; nil uses os/exec.
	Runner Runner

	// LookPath locates binaries; nil uses exec.LookPath.
	LookPath func(string) (string, error)
}

type toolGenerator struct {
	spec ToolSpec
	opts ToolOptions
}

// NewToolHandler creates a handler that runs an external CLI for the
// template identifiers matching patterns. It only applies when the
// configuration enables external tools.
func NewToolHandler(name, description string, patterns []string, spec ToolSpec, opts ToolOptions) *Handler {
	if opts.Runner == nil {
		opts.Runner = execRunner
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	return &Handler{
		Name:        name,
		Description: description,
		Kind:        KindExternalTool,
		Templates:   patterns,
		tool:        &toolGenerator{spec: spec, opts: opts},
	}
}

// Tool returns the tool spec of an external-tool handler.
func (h *Handler) Tool() (ToolSpec, bool) {
	if h.Kind != KindExternalTool {
		return ToolSpec{}, false
	}
	return h.tool.spec, true
}

// ToolInfo describes the installation state of an external tool.
type ToolInfo struct {
	Binary  string
	Path    string
	Version string
	Found   bool
	Message string
}

// Detect reports whether the tool behind h is installed and its version.
func (h *Handler) Detect(ctx context.Context) ToolInfo {
	if h.Kind != KindExternalTool {
		return ToolInfo{Message: "not an external tool handler"}
	}
	return h.tool.detect(ctx)
}

func (g *toolGenerator) detect(ctx context.Context) ToolInfo {
	info := ToolInfo{Binary: g.spec.Binary}

	p, err := g.opts.LookPath(g.spec.Binary)
	if err != nil {
		info.Message = fmt.Sprintf("%s not found in PATH", g.spec.Binary)
		return info
	}
	info.Path = p

	if len(g.spec.VersionCommand) == 0 {
		info.Found = true
		return info
	}

	out, err := g.opts.Runner(ctx, "", g.spec.VersionCommand[0], g.spec.VersionCommand[1:]...)
	if err != nil {
		info.Message = fmt.Sprintf("%s is installed but %q failed: %v",
			g.spec.Binary, strings.Join(g.spec.VersionCommand, " "), err)
		return info
	}

	info.Found = true
	info.Version = versionRegex.FindString(string(out))
	return info
}

func (g *toolGenerator) initialize(ctx context.Context, req Request) (*Result, error) {
	fail := func(err error) (*Result, error) {
		return nil, oerrors.NewComponentError(req.Component, oerrors.ErrHandlerExecution, err)
	}

	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	info := g.detect(ctx)
	if !info.Found {
		return fail(g.installError(info.Message))
	}
	output.Debug("using external tool", "binary", info.Binary, "path", info.Path, "version", info.Version)

	vars := g.spec.Defaults.Merge(req.Variables)
	renderer := templates.NewRenderer(vars, templates.WithStrict(true))
	command := make([]string, len(g.spec.Command))
	for i, arg := range g.spec.Command {
		rendered, err := renderer.RenderString(arg)
		if err != nil {
			return fail(fmt.Errorf("rendering command argument %q: %w", arg, err))
		}
		command[i] = rendered
	}

	createdDir, err := g.prepareTarget(req.TargetDir)
	if err != nil {
		return fail(err)
	}
	cleanup := func() {
		if createdDir {
			_ = os.RemoveAll(req.TargetDir)
		}
	}

	dir := filepath.Dir(req.TargetDir)
	if g.spec.InPlace {
		dir = req.TargetDir
	}

	output.Info("running external tool", "component", req.Component, "command", strings.Join(command, " "))
	out, err := g.opts.Runner(ctx, dir, command[0], command[1:]...)
	if err != nil {
		cleanup()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fail(fmt.Errorf("%s timed out after %s", command[0], g.opts.Timeout))
		}
		return fail(fmt.Errorf("%s failed: %w%s", strings.Join(command, " "), err, formatTail(out)))
	}
	output.Debug("external tool output", "component", req.Component, "output", string(out))

	st, err := os.Stat(req.TargetDir)
	if err != nil || !st.IsDir() {
		cleanup()
		return fail(fmt.Errorf("%s did not create %s", command[0], req.TargetDir))
	}

	files, err := fsutil.FindFiles(req.TargetDir, []string{"**"})
	if err != nil {
		return fail(fmt.Errorf("listing generated files: %w", err))
	}
	return &Result{Files: files, CreatedDir: createdDir}, nil
}

// prepareTarget applies the overwrite policy and, for in-place tools,
// creates the target directory. It reports whether the directory is new.
func (g *toolGenerator) prepareTarget(target string) (bool, error) {
	entries, err := os.ReadDir(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return false, fmt.Errorf("creating parent of %s: %w", target, err)
		}
		if g.spec.InPlace {
			if err := os.Mkdir(target, 0o755); err != nil {
				return false, fmt.Errorf("creating %s: %w", target, err)
			}
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("checking target directory: %w", err)
	case len(entries) > 0 && !g.opts.Force:
		return false, fmt.Errorf("target directory %s is not empty; use --force to generate into it", target)
	}
	return false, nil
}

func (g *toolGenerator) installError(reason string) error {
	if g.spec.InstallHint == "" {
		return errors.New(reason)
	}
	return fmt.Errorf("%s; install it with: %s", reason, g.spec.InstallHint)
}

func (g *toolGenerator) nextSteps(req Request) []string {
	vars := g.spec.Defaults.Merge(req.Variables)
	return templates.NewRenderer(vars).RenderNextSteps(templates.Descriptor{NextSteps: g.spec.NextSteps})
}

func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = 2 * time.Second
	return cmd.CombinedOutput()
}

func formatTail(out []byte) string {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return ""
	}
	if len(s) > outputTailLen {
		s = "..." + s[len(s)-outputTailLen:]
	}
	return "\n" + s
}
