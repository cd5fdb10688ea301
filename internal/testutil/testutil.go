// Package testutil provides test helpers for CLI and engine tests.
package testutil

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/forgekit/forge/internal/output"
)

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// WriteTree writes files (slash-separated relative path -> content) under dir.
func WriteTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
}

// ReadTree returns every regular file under dir keyed by its
// slash-separated relative path.
func ReadTree(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to read tree %s: %v", dir, err)
	}
	return files
}

// CaptureOutput redirects output.Print and output.Println to a buffer and
// log output to another until the test ends.
func CaptureOutput(t *testing.T) (stdout, logs *bytes.Buffer) {
	t.Helper()
	stdout, logs = &bytes.Buffer{}, &bytes.Buffer{}
	prev := output.SetStdout(stdout)
	output.SetLogOutput(logs)
	t.Cleanup(func() {
		output.SetStdout(prev)
		output.SetLogOutput(os.Stderr)
	})
	return stdout, logs
}
