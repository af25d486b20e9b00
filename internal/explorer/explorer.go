// Package explorer holds the active repository selection and answers
// read-only queries against it: enumerate, count, read, search and find.
//
// An Explorer owns exactly one selection. Every query re-validates that the
// selected directory still exists before walking it, so a repository that is
// deleted between calls produces a NoActiveRepository error, never a panic.
package explorer

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"repox/internal/errors"
	"repox/internal/paths"
)

// Explorer is the repository selector and query engine.
type Explorer struct {
	projectsRoot string
	logger       *slog.Logger

	mu     sync.RWMutex
	active string
}

// New creates an Explorer with no active repository. Relative selections are
// resolved under projectsRoot.
func New(projectsRoot string, logger *slog.Logger) *Explorer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Explorer{
		projectsRoot: projectsRoot,
		logger:       logger,
	}
}

// ProjectsRoot returns the directory relative selections are resolved under.
func (e *Explorer) ProjectsRoot() string {
	return e.projectsRoot
}

// ActiveRepository returns the current selection without validating it.
func (e *Explorer) ActiveRepository() (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active, e.active != ""
}

// Resolve turns caller input into a canonical absolute path. "~" is expanded
// first; absolute input is used as given and anything else is joined onto the
// projects root. Symlinks are resolved when the path exists.
func (e *Explorer) Resolve(path string) string {
	if expanded, err := paths.ExpandHome(path); err == nil {
		path = expanded
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.projectsRoot, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}

// SelectRepository validates path and makes it the active repository.
// On failure the previous selection is kept.
func (e *Explorer) SelectRepository(path string) (string, error) {
	e.logger.Info("Selecting repository", "path", path)

	repo := e.Resolve(path)
	info, err := os.Stat(repo)
	if err != nil {
		e.logger.Warn("Repository selection failed", "path", repo, "error", err.Error())
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.NewPathNotFoundError(repo)
		}
		return "", errors.NewOperationError("stat "+repo, err)
	}
	if !info.IsDir() {
		e.logger.Warn("Repository selection failed", "path", repo, "error", "not a directory")
		return "", errors.NewNotADirectoryError(repo)
	}

	e.mu.Lock()
	e.active = repo
	e.mu.Unlock()

	e.logger.Info("Active repository set", "path", repo)
	return repo, nil
}

// selection returns the active repository if it is still an existing
// directory. The result is never cached.
func (e *Explorer) selection() (string, error) {
	e.mu.RLock()
	repo := e.active
	e.mu.RUnlock()

	if repo == "" {
		return "", errors.NewNoActiveRepositoryError()
	}
	info, err := os.Stat(repo)
	if err != nil || !info.IsDir() {
		e.logger.Warn("Active repository is no longer valid", "path", repo)
		return "", errors.NewNoActiveRepositoryError()
	}
	return repo, nil
}
