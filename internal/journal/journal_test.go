package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "journal.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := openTestStore(t)
	session := NewSessionID()

	result := []byte(`{"schemaVersion":"1.0","data":["a.txt","sub/b.py"]}`)
	entry := &Entry{
		SessionID:  session,
		Tool:       "list_all_files",
		Status:     StatusOK,
		DurationMs: 12,
		Result:     result,
	}
	require.NoError(t, store.Record(entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	got, err := store.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, session, got.SessionID)
	assert.Equal(t, "list_all_files", got.Tool)
	assert.Equal(t, "{}", got.Params)
	assert.Equal(t, StatusOK, got.Status)
	assert.Empty(t, got.ErrorCode)
	assert.Equal(t, int64(12), got.DurationMs)
	assert.Equal(t, result, got.Result)
	assert.WithinDuration(t, entry.CreatedAt, got.CreatedAt, time.Microsecond)
}

func TestRecordError(t *testing.T) {
	store := openTestStore(t)

	entry := &Entry{
		SessionID: "s1",
		Tool:      "read_file",
		Params:    `{"relative_path":"missing.txt"}`,
		Status:    StatusError,
		ErrorCode: "FILE_NOT_FOUND",
	}
	require.NoError(t, store.Record(entry))

	got, err := store.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "FILE_NOT_FOUND", got.ErrorCode)
	assert.Equal(t, `{"relative_path":"missing.txt"}`, got.Params)
	assert.Empty(t, got.Result)
}

func TestGetNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecentOrderAndLimit(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tools := []string{"list_projects", "set_repo", "count_files", "search_in_repo"}
	for i, tool := range tools {
		require.NoError(t, store.Record(&Entry{
			SessionID: "s",
			Tool:      tool,
			Status:    StatusOK,
			CreatedAt: base.Add(time.Duration(i) * 500 * time.Millisecond),
			Result:    []byte(`{"data":1}`),
		}))
	}

	recent, err := store.Recent(3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "search_in_repo", recent[0].Tool)
	assert.Equal(t, "count_files", recent[1].Tool)
	assert.Equal(t, "set_repo", recent[2].Tool)
	for _, e := range recent {
		assert.Nil(t, e.Result, "Recent should not load results")
	}
}

func TestRecentEmpty(t *testing.T) {
	store := openTestStore(t)

	recent, err := store.Recent(0)
	require.NoError(t, err)
	assert.NotNil(t, recent)
	assert.Empty(t, recent)
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	store, err := Open(path, nil)
	require.NoError(t, err)
	entry := &Entry{SessionID: "s", Tool: "count_files", Status: StatusOK}
	require.NoError(t, store.Record(entry))
	require.NoError(t, store.Close())

	store, err = Open(path, nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	got, err := store.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "count_files", got.Tool)
	assert.Equal(t, path, store.Path())
}
