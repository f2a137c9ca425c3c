package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// CreateFile creates a file with the given content in the specified directory.
// It fails the test if the file cannot be created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}

	return path
}

// CreateExecutable creates an executable shell script
func CreateExecutable(t *testing.T, dir, name, script string) string {
	t.Helper()

	path := CreateFile(t, dir, name, "#!/bin/sh\n"+script+"\n")
	if err := os.Chmod(path, 0755); err != nil {
		t.Fatalf("Failed to chmod %s: %v", path, err)
	}
	return path
}

// ReadFile returns a file's content, failing the test when it cannot be read
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// FileExists reports whether path exists (symlinks are not followed)
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
