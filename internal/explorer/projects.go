package explorer

import (
	"os"
	"path/filepath"
)

// ListProjects returns the names of the directories directly under the
// projects root, sorted by name. A missing or unreadable root yields an
// empty list.
func (e *Explorer) ListProjects() []string {
	projects := []string{}

	entries, err := os.ReadDir(e.projectsRoot)
	if err != nil {
		e.logger.Warn("Projects root is not readable", "path", e.projectsRoot, "error", err.Error())
		return projects
	}

	for _, entry := range entries {
		if entry.IsDir() {
			projects = append(projects, entry.Name())
			continue
		}
		// Symlinks to directories count as projects.
		if entry.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(e.projectsRoot, entry.Name())); err == nil && info.IsDir() {
				projects = append(projects, entry.Name())
			}
		}
	}

	e.logger.Info("Listed projects", "root", e.projectsRoot, "count", len(projects))
	return projects
}
