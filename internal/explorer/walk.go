package explorer

import (
	"io/fs"
	"os"
	"path/filepath"
)

// walkFiles calls visit for every file under root in lexical order, passing
// the slash-separated relative path and the absolute path. Walking stops when
// visit returns false.
//
// Files are regular files and symlinks to regular files. Symlinked
// directories are not descended, so link cycles cannot occur. Unreadable
// directories are skipped.
func walkFiles(root string, visit func(rel, abs string) bool) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.IsDir() || !isFile(path, d) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil //nolint:nilerr // cannot happen for paths under root
		}
		if !visit(filepath.ToSlash(rel), path) {
			return fs.SkipAll
		}
		return nil
	})
	return err
}

func isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
