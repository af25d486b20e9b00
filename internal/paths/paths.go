// Package paths resolves the on-disk locations repox uses: its home
// directory (~/.repox), log and journal files, and the projects root.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DirName is the name of the per-user repox directory under $HOME.
	DirName = ".repox"

	// DefaultProjectsDir is the projects root relative to $HOME.
	DefaultProjectsDir = "Projects"

	// EnvHome overrides the repox directory location.
	EnvHome = "REPOX_HOME"
)

// GetRepoxDir returns ~/.repox, or $REPOX_HOME when set.
func GetRepoxDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return ExpandHome(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName), nil
}

// EnsureRepoxDir creates the repox directory if needed and returns it.
func EnsureRepoxDir() (string, error) {
	dir, err := GetRepoxDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetConfigPath returns ~/.repox/config.toml.
func GetConfigPath() (string, error) {
	dir, err := GetRepoxDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// GetJournalPath returns ~/.repox/journal.db.
func GetJournalPath() (string, error) {
	dir, err := GetRepoxDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journal.db"), nil
}

// GetLogsDir returns ~/.repox/logs.
func GetLogsDir() (string, error) {
	dir, err := GetRepoxDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

// GetMCPLogPath returns ~/.repox/logs/mcp.log.
func GetMCPLogPath() (string, error) {
	dir, err := GetLogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mcp.log"), nil
}

// DefaultProjectsRoot returns ~/Projects.
func DefaultProjectsRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultProjectsDir), nil
}

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
// "~user" forms are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// NormalizePath converts backslashes to forward slashes.
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}
