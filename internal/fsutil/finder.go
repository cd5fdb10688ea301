package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// skippedDirs are never descended into when searching a component tree.
var skippedDirs = map[string]bool{
	".git":         true,
	"target":       true,
	"node_modules": true,
}

// FindFiles recursively searches root for files whose slash-separated path
// relative to root matches any of the doublestar patterns. It returns the
// relative paths, sorted.
func FindFiles(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		panic("patterns must not be empty")
	}

	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				files = append(files, rel)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
