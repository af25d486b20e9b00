package explorer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repox/internal/errors"
	"repox/internal/testutil"
)

var (
	writeTree = testutil.WriteTree
	tempDir   = testutil.TempDir
)

func newRepo(t *testing.T, files map[string]string) (*Explorer, string) {
	t.Helper()
	repo := tempDir(t)
	writeTree(t, repo, files)

	e := New(tempDir(t), nil)
	_, err := e.SelectRepository(repo)
	require.NoError(t, err)
	return e, repo
}

func TestSelectRepository_Absolute(t *testing.T) {
	repo := tempDir(t)
	e := New(tempDir(t), nil)

	got, err := e.SelectRepository(repo)
	require.NoError(t, err)
	assert.Equal(t, repo, got)

	active, ok := e.ActiveRepository()
	assert.True(t, ok)
	assert.Equal(t, repo, active)
}

func TestSelectRepository_RelativeUsesProjectsRoot(t *testing.T) {
	root := tempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "foo"), 0755))

	e := New(root, nil)
	got, err := e.SelectRepository("foo")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "foo"), got)
}

func TestSelectRepository_ExpandsHome(t *testing.T) {
	home := tempDir(t)
	t.Setenv("HOME", home)
	require.NoError(t, os.Mkdir(filepath.Join(home, "work"), 0755))

	e := New(tempDir(t), nil)
	got, err := e.SelectRepository("~/work")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "work"), got)
}

func TestSelectRepository_Failures(t *testing.T) {
	e, repo := newRepo(t, map[string]string{"a.txt": "alpha"})

	_, err := e.SelectRepository(filepath.Join(repo, "missing"))
	assert.True(t, errors.Is(err, errors.PathNotFound), "got %v", err)

	_, err = e.SelectRepository(filepath.Join(repo, "a.txt"))
	assert.True(t, errors.Is(err, errors.NotADirectory), "got %v", err)

	// The previous selection is still in effect.
	active, _ := e.ActiveRepository()
	assert.Equal(t, repo, active)
	content, err := e.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", content)
}

func TestSelectRepository_ErrorMessages(t *testing.T) {
	root := tempDir(t)
	e := New(root, nil)

	_, err := e.SelectRepository("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Path does not exist: "+filepath.Join(root, "nope"))
}

func TestQueriesWithoutSelection(t *testing.T) {
	e := New(tempDir(t), nil)

	_, err := e.ListAllFiles()
	assert.True(t, errors.Is(err, errors.NoActiveRepository))

	_, err = e.CountFiles()
	assert.True(t, errors.Is(err, errors.NoActiveRepository))

	_, err = e.ReadFile("a.txt")
	assert.True(t, errors.Is(err, errors.NoActiveRepository))

	_, err = e.Search("x", 10)
	assert.True(t, errors.Is(err, errors.NoActiveRepository))

	_, err = e.FindFiles(FindOptions{MaxResults: 10})
	assert.True(t, errors.Is(err, errors.NoActiveRepository))
}

func TestSelectionRevalidatedAfterRemoval(t *testing.T) {
	e, repo := newRepo(t, map[string]string{"a.txt": "alpha"})
	require.NoError(t, os.RemoveAll(repo))

	_, err := e.ListAllFiles()
	assert.True(t, errors.Is(err, errors.NoActiveRepository))

	// Recreating the directory makes the same selection valid again.
	require.NoError(t, os.Mkdir(repo, 0755))
	files, err := e.ListAllFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListProjects(t *testing.T) {
	root := tempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "beta"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "alpha"), 0755))
	writeTree(t, root, map[string]string{"notes.txt": "x", "alpha/nested/deep.txt": "y"})

	e := New(root, nil)
	assert.Equal(t, []string{"alpha", "beta"}, e.ListProjects())
}

func TestListProjects_MissingRoot(t *testing.T) {
	e := New(filepath.Join(tempDir(t), "does-not-exist"), nil)
	projects := e.ListProjects()
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestListProjects_IgnoresSelection(t *testing.T) {
	root := tempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "only"), 0755))

	e := New(root, nil)
	assert.Equal(t, []string{"only"}, e.ListProjects())
}
