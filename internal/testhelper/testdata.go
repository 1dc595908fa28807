// Package testhelper provides utilities for managing testdata files in tests.
package testhelper

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/agentstation/profilemerge/pkg/constants"
)

// LoadTestdata loads a testdata file from the caller's testdata directory.
func LoadTestdata(t testing.TB, filename string) []byte {
	t.Helper()

	// Get the testdata path relative to the test file
	testdataPath := filepath.Join("testdata", filename)

	data, err := os.ReadFile(testdataPath) //nolint:gosec // Test file paths are controlled
	if err != nil {
		t.Fatalf("Failed to load testdata file %s: %v", testdataPath, err)
	}

	return data
}

// LoadJSON loads and unmarshals JSON from a testdata file.
func LoadJSON(t testing.TB, filename string, v any) {
	t.Helper()

	data := LoadTestdata(t, filename)

	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Failed to unmarshal JSON from testdata file %s: %v", filename, err)
	}
}

// MemFs returns an in-memory filesystem holding the given files, keyed
// by path.
func MemFs(t testing.TB, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		WriteFile(t, fs, path, []byte(content))
	}
	return fs
}

// CopyTestdata copies testdata files into fs below dir and returns their
// new paths in argument order.
func CopyTestdata(t testing.TB, fs afero.Fs, dir string, filenames ...string) []string {
	t.Helper()

	paths := make([]string, 0, len(filenames))
	for _, name := range filenames {
		path := filepath.Join(dir, name)
		WriteFile(t, fs, path, LoadTestdata(t, name))
		paths = append(paths, path)
	}
	return paths
}

// WriteFile writes data to path on fs, creating parent directories.
func WriteFile(t testing.TB, fs afero.Fs, path string, data []byte) {
	t.Helper()

	if err := fs.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, data, constants.FilePermissions); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// CountFiles returns the number of regular files below root on fs.
func CountFiles(t testing.TB, fs afero.Fs, root string) int {
	t.Helper()

	count := 0
	err := afero.Walk(fs, root, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk %s: %v", root, err)
	}
	return count
}
