// Package journal records MCP tool calls in a local SQLite database so past
// sessions can be inspected with `repox journal`.
package journal

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"
)

// Status is the outcome of a recorded call.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// timeLayout has fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = stderrors.New("journal entry not found")

// Entry is one recorded tool call.
type Entry struct {
	ID         string    `json:"id" yaml:"id"`
	SessionID  string    `json:"sessionId" yaml:"sessionId"`
	Tool       string    `json:"tool" yaml:"tool"`
	Params     string    `json:"params" yaml:"params"` // JSON object
	Status     Status    `json:"status" yaml:"status"`
	ErrorCode  string    `json:"errorCode,omitempty" yaml:"errorCode,omitempty"`
	DurationMs int64     `json:"durationMs" yaml:"durationMs"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`

	// Result is the tool's JSON output. Recent leaves it empty.
	Result []byte `json:"-" yaml:"-"`
}

// Store provides persistence for the journal.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	dbPath string

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open opens or creates the journal database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		_ = conn.Close()
		return nil, err
	}

	store := &Store{
		conn:   conn,
		logger: logger,
		dbPath: path,
		enc:    enc,
		dec:    dec,
	}

	if err := store.initializeSchema(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	logger.Debug("Opened journal", "path", path)
	return store, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS calls (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			tool TEXT NOT NULL,
			params_json TEXT NOT NULL DEFAULT '{}',
			status TEXT NOT NULL,
			error_code TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			result_zstd BLOB,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_calls_created_at ON calls(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_calls_session ON calls(session_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.dec != nil {
		s.dec.Close()
	}
	if s.enc != nil {
		_ = s.enc.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Record inserts e, assigning an ID and timestamp when missing.
func (s *Store) Record(e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Params == "" {
		e.Params = "{}"
	}

	var blob []byte
	if len(e.Result) > 0 {
		blob = s.enc.EncodeAll(e.Result, nil)
	}

	_, err := s.conn.Exec(`
		INSERT INTO calls (id, session_id, tool, params_json, status, error_code, duration_ms, result_zstd, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		e.SessionID,
		e.Tool,
		e.Params,
		string(e.Status),
		nullString(e.ErrorCode),
		e.DurationMs,
		blob,
		e.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record call: %w", err)
	}

	s.logger.Debug("Recorded call", "id", e.ID, "tool", e.Tool, "status", string(e.Status))
	return nil
}

// Recent returns up to limit entries, newest first, without results.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 1000 {
		limit = 1000
	}

	rows, err := s.conn.Query(`
		SELECT id, session_id, tool, params_json, status, error_code, duration_ms, created_at
		FROM calls
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := scanEntry(rows, &e, nil); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calls: %w", err)
	}
	return entries, nil
}

// Get returns the entry with the given ID including its decompressed result.
func (s *Store) Get(id string) (*Entry, error) {
	row := s.conn.QueryRow(`
		SELECT id, session_id, tool, params_json, status, error_code, duration_ms, created_at, result_zstd
		FROM calls WHERE id = ?
	`, id)

	var e Entry
	var blob []byte
	if err := scanEntry(row, &e, &blob); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(blob) > 0 {
		result, err := s.dec.DecodeAll(blob, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress result: %w", err)
		}
		e.Result = result
	}
	return &e, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner, e *Entry, blob *[]byte) error {
	var status, createdAt string
	var errorCode sql.NullString
	var durationMs int64

	dest := []interface{}{&e.ID, &e.SessionID, &e.Tool, &e.Params, &status, &errorCode, &durationMs, &createdAt}
	if blob != nil {
		dest = append(dest, blob)
	}
	if err := row.Scan(dest...); err != nil {
		return err
	}

	e.Status = Status(status)
	e.ErrorCode = errorCode.String
	e.DurationMs = durationMs
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	e.CreatedAt = t
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
