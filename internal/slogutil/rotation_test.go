package slogutil

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", filepath.Base(path), err)
	}
	return string(data)
}

func TestParseSize(t *testing.T) {
	cases := map[string]int64{
		"":       0,
		"   ":    0,
		"ten MB": 0,
		"-5MB":   0,
		"10TB":   0,
		"512":    512,
		"512B":   512,
		" 64kb ": 64 << 10,
		"10MB":   10 << 20,
		"10 MB":  10 << 20,
		"2.5mb":  int64(2.5 * (1 << 20)),
		"1GB":    1 << 30,
	}

	for in, want := range cases {
		if got := ParseSize(in); got != want {
			t.Errorf("ParseSize(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestRotatingFile_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mcp.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("earlier\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rf, err := OpenRotatingFile(path, 1024, 1)
	if err != nil {
		t.Fatalf("OpenRotatingFile() error = %v", err)
	}
	if _, err := rf.Write([]byte("later\n")); err != nil {
		t.Fatal(err)
	}
	_ = rf.Close()

	if got := readLog(t, path); got != "earlier\nlater\n" {
		t.Errorf("log = %q", got)
	}
}

func TestRotatingFile_OversizedFirstWriteIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.log")
	rf, err := OpenRotatingFile(path, 8, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()

	// An empty file is never rotated, so a single long record lands intact.
	line := strings.Repeat("x", 20) + "\n"
	if _, err := rf.Write([]byte(line)); err != nil {
		t.Fatal(err)
	}

	if got := readLog(t, path); got != line {
		t.Errorf("log = %q, want %q", got, line)
	}
	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("no backup expected after the first write")
	}
}

func TestRotatingFile_ShiftsBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.log")
	rf, err := OpenRotatingFile(path, 10, 2)
	if err != nil {
		t.Fatal(err)
	}

	for _, rec := range []string{"first\n", "second\n", "third\n", "fourth\n"} {
		if _, err := rf.Write([]byte(rec)); err != nil {
			t.Fatalf("Write(%q) error = %v", rec, err)
		}
	}
	_ = rf.Close()

	want := map[string]string{
		path:        "fourth\n",
		path + ".1": "third\n",
		path + ".2": "second\n",
	}
	for p, content := range want {
		if got := readLog(t, p); got != content {
			t.Errorf("%s = %q, want %q", filepath.Base(p), got, content)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Error("only maxBackups backups should be kept")
	}
}

func TestRotatingFile_NoBackupsTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.log")
	rf, err := OpenRotatingFile(path, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = rf.Write([]byte("old record\n"))
	_, _ = rf.Write([]byte("new\n"))
	_ = rf.Close()

	if got := readLog(t, path); got != "new\n" {
		t.Errorf("log = %q, want %q", got, "new\n")
	}
	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("maxBackups 0 should not leave a backup")
	}
}

func TestRotatingFile_WriteAfterClose(t *testing.T) {
	rf, err := OpenRotatingFile(filepath.Join(t.TempDir(), "mcp.log"), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := rf.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := rf.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if _, err := rf.Write([]byte("late\n")); !errors.Is(err, os.ErrClosed) {
		t.Errorf("Write() after Close error = %v, want os.ErrClosed", err)
	}
}

func TestNewFileLoggerWithRotation(t *testing.T) {
	dir := t.TempDir()

	for _, maxSize := range []string{"1MB", "", "lots"} {
		path := filepath.Join(dir, "size-"+maxSize+".log")
		logger, closer, err := NewFileLoggerWithRotation(path, slog.LevelInfo, maxSize, 2)
		if err != nil {
			t.Fatalf("maxSize %q: error = %v", maxSize, err)
		}
		_, rotating := closer.(*RotatingFile)
		if rotating != (maxSize == "1MB") {
			t.Errorf("maxSize %q: rotating = %v", maxSize, rotating)
		}

		logger.Debug("hidden")
		logger.Info("Tool called", "tool", "count_files")
		_ = closer.Close()

		got := readLog(t, path)
		if strings.Contains(got, "hidden") || !strings.Contains(got, "tool=count_files") {
			t.Errorf("maxSize %q: log = %q", maxSize, got)
		}
	}
}
