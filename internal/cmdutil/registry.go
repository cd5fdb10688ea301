package cmdutil

import (
	"fmt"
	"os"

	"github.com/forgekit/forge/internal/config"
	oerrors "github.com/forgekit/forge/internal/errors"
	"github.com/forgekit/forge/internal/handler"
	"github.com/forgekit/forge/internal/output"
	"github.com/forgekit/forge/internal/templates"
)

// OpenStore returns the template catalog for s: the on-disk catalog when
// TemplatesDir is set, else ~/.forge/templates when it exists, else the
// built-in one.
func OpenStore(s *config.Settings) (templates.Store, error) {
	if s.TemplatesDir == "" {
		if dir, ok := userTemplatesDir(); ok {
			output.Debug("using user template catalog", "dir", dir)
			return templates.NewDirStore(dir)
		}
		return templates.Builtin(), nil
	}

	dir, err := config.ExpandPath(s.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("expanding templates directory: %w", err)
	}
	store, err := templates.NewDirStore(dir)
	if err != nil {
		return nil, &oerrors.DetailError{
			Type:     "not found",
			Message:  err.Error(),
			Location: dir,
			Hint:     "Set --templates-dir or templatesDir to an existing template catalog",
			Cause:    oerrors.ErrNotFound,
		}
	}
	output.Debug("using template catalog", "dir", dir)
	return store, nil
}

// NewRegistry builds the default handler registry for s.
func NewRegistry(s *config.Settings, opts handler.Options) (*handler.Registry, error) {
	store, err := OpenStore(s)
	if err != nil {
		return nil, err
	}
	opts.Store = store
	opts.StrictVariables = s.StrictVariables
	opts.Force = s.Force
	opts.ToolTimeout = s.ToolTimeout
	return handler.DefaultRegistry(opts), nil
}

func userTemplatesDir() (string, bool) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return "", false
	}
	info, err := os.Stat(paths.TemplatesDir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return paths.TemplatesDir, true
}
