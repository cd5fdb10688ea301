package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/forgekit/forge/internal/fsutil"
	"github.com/forgekit/forge/internal/output"
)

// WriteOptions configures how rendered files are written.
type WriteOptions struct {
	// Force allows overwriting files that already exist.
	Force bool
}

// WriteResult reports what Write produced.
type WriteResult struct {
	// Files are the written paths, relative to the target directory.
	Files []string

	// CreatedDir is set when Write created the target directory.
	CreatedDir bool
}

// Write materializes files under targetDir. Without Force, any file that
// would be overwritten fails the call before anything is written. Each file
// is written to a temporary sibling and renamed into place, so an
// interrupted write never leaves a truncated file. When Write created
// targetDir and fails, targetDir is removed again.
func Write(targetDir string, files []File, opts WriteOptions) (*WriteResult, error) {
	result := &WriteResult{}

	info, err := os.Stat(targetDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		result.CreatedDir = true
	case err != nil:
		return nil, fmt.Errorf("checking target directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("%s is not a directory", targetDir)
	}

	if !opts.Force && !result.CreatedDir {
		for _, f := range files {
			p := filepath.Join(targetDir, filepath.FromSlash(f.TargetPath))
			if _, err := os.Stat(p); err == nil {
				return nil, fmt.Errorf("file %s already exists; use --force to overwrite", p)
			}
		}
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", targetDir, err)
	}

	for _, f := range files {
		p := filepath.Join(targetDir, filepath.FromSlash(f.TargetPath))
		if err := fsutil.WriteFileAtomic(p, f.Content, f.Mode); err != nil {
			if result.CreatedDir {
				_ = os.RemoveAll(targetDir)
			}
			return nil, err
		}
		output.Debug("created file", "path", p)
		result.Files = append(result.Files, f.TargetPath)
	}

	return result, nil
}
