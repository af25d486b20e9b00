package explorer

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"repox/internal/errors"
)

// Match is one line of search output.
type Match struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

func (m Match) String() string {
	return fmt.Sprintf("%s:%d: %s", m.Path, m.Line, m.Text)
}

// FindOptions filters FindFiles. Empty NameSubstring and Extension match
// every file.
type FindOptions struct {
	NameSubstring string
	Extension     string
	MaxResults    int
}

// ListAllFiles returns every file under the active repository as a
// slash-separated relative path, in walk order.
func (e *Explorer) ListAllFiles() ([]string, error) {
	repo, err := e.selection()
	if err != nil {
		return nil, err
	}

	files := []string{}
	if err := walkFiles(repo, func(rel, _ string) bool {
		files = append(files, rel)
		return true
	}); err != nil {
		return nil, errors.NewOperationError("list files", err)
	}

	e.logger.Info("Listed files", "count", len(files))
	return files, nil
}

// CountFiles counts the files ListAllFiles would return.
func (e *Explorer) CountFiles() (int, error) {
	repo, err := e.selection()
	if err != nil {
		return 0, err
	}

	count := 0
	if err := walkFiles(repo, func(string, string) bool {
		count++
		return true
	}); err != nil {
		return 0, errors.NewOperationError("count files", err)
	}

	e.logger.Info("Counted files", "count", count)
	return count, nil
}

// ReadFile returns the full text of a file in the active repository.
// relativePath is joined onto the repository root as given: ".." segments
// are not rejected, and an absolute path is read from under the root rather
// than from the filesystem root.
func (e *Explorer) ReadFile(relativePath string) (string, error) {
	repo, err := e.selection()
	if err != nil {
		return "", err
	}

	path := filepath.Join(repo, relativePath)
	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.NewFileNotFoundError(relativePath)
		}
		return "", errors.NewReadError(relativePath, err)
	}
	if !info.Mode().IsRegular() {
		return "", errors.NewNotAFileError(relativePath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.Error("Failed to read file", "path", relativePath, "error", err.Error())
		return "", errors.NewReadError(relativePath, err)
	}
	if !utf8.Valid(data) {
		e.logger.Error("Failed to decode file", "path", relativePath)
		return "", errors.NewReadError(relativePath, errNotText)
	}

	e.logger.Info("Read file", "path", relativePath, "bytes", len(data))
	return string(data), nil
}

var errNotText = stderrors.New("content is not valid UTF-8 text")

// Search scans every file for lines containing query as a literal,
// case-sensitive substring. Invalid UTF-8 is dropped before matching and
// unreadable files are skipped. At most maxResults matches are returned;
// the scan stops as soon as the limit is hit.
func (e *Explorer) Search(query string, maxResults int) ([]Match, error) {
	repo, err := e.selection()
	if err != nil {
		return nil, err
	}

	matches := []Match{}
	if maxResults <= 0 {
		return matches, nil
	}

	err = walkFiles(repo, func(rel, abs string) bool {
		data, err := os.ReadFile(abs)
		if err != nil {
			e.logger.Debug("Skipping unreadable file", "path", rel, "error", err.Error())
			return true
		}
		content := strings.ToValidUTF8(string(data), "")
		for i, line := range splitLines(content) {
			if !strings.Contains(line, query) {
				continue
			}
			matches = append(matches, Match{Path: rel, Line: i + 1, Text: strings.TrimSpace(line)})
			if len(matches) >= maxResults {
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, errors.NewOperationError("search", err)
	}

	e.logger.Info("Searched repository", "query", query, "matches", len(matches))
	return matches, nil
}

// FindFiles returns files whose base name contains opts.NameSubstring and
// ends with opts.Extension, up to opts.MaxResults.
func (e *Explorer) FindFiles(opts FindOptions) ([]string, error) {
	repo, err := e.selection()
	if err != nil {
		return nil, err
	}

	hits := []string{}
	if opts.MaxResults <= 0 {
		return hits, nil
	}

	err = walkFiles(repo, func(rel, _ string) bool {
		name := filepath.Base(rel)
		if opts.NameSubstring != "" && !strings.Contains(name, opts.NameSubstring) {
			return true
		}
		if opts.Extension != "" && !strings.HasSuffix(name, opts.Extension) {
			return true
		}
		hits = append(hits, rel)
		return len(hits) < opts.MaxResults
	})
	if err != nil {
		return nil, errors.NewOperationError("find files", err)
	}

	e.logger.Info("Found files", "name", opts.NameSubstring, "extension", opts.Extension, "count", len(hits))
	return hits, nil
}

// splitLines breaks s at line boundaries: \n, \r\n, \r, \v, \f, the
// separators \x1c-\x1e, NEL (U+0085), and U+2028/U+2029. A trailing
// boundary does not produce an empty final line.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if i < start {
			// second byte of a \r\n pair
			continue
		}
		if !isLineBreak(r) {
			continue
		}
		lines = append(lines, s[start:i])
		start = i + utf8.RuneLen(r)
		if r == '\r' && start < len(s) && s[start] == '\n' {
			start++
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
