// Package testutil provides fixtures for tests that need a directory tree on
// disk: repositories to explore and projects roots to list.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// DemoRepo is a small Go repository used across packages.
var DemoRepo = map[string]string{
	"go.mod":         "module example.com/demo\n",
	"main.go":        "package main\n\nfunc main() {\n\tprintln(\"hello\")\n}\n",
	"docs/readme.md": "# demo\nhello docs\n",
	"docs/guide.md":  "hello guide\n",
}

// TempDir returns a temporary directory with symlinks resolved, so paths
// compare equal to what the explorer reports.
func TempDir(t testing.TB) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}
	return dir
}

// WriteTree creates files (slash-separated path -> content) under root.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
}

// ProjectsRoot creates a projects root holding one directory per entry of
// projects, each filled with its file tree.
func ProjectsRoot(t testing.TB, projects map[string]map[string]string) string {
	t.Helper()
	root := TempDir(t)
	for name, files := range projects {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("Failed to create project %s: %v", name, err)
		}
		WriteTree(t, dir, files)
	}
	return root
}
