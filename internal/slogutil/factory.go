package slogutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"repox/internal/config"
	"repox/internal/paths"
)

// LoggerFactory builds loggers for the CLI and the MCP server.
// Precedence for the level: CLI flag > config > info.
type LoggerFactory struct {
	config   *config.Config
	cliLevel string
	stderr   io.Writer
	closers  []io.Closer
}

// NewLoggerFactory creates a factory. cliLevel is empty when no flag was given.
func NewLoggerFactory(cfg *config.Config, cliLevel string) *LoggerFactory {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &LoggerFactory{
		config:   cfg,
		cliLevel: cliLevel,
		stderr:   os.Stderr,
	}
}

// SetStderr redirects console output (for testing).
func (f *LoggerFactory) SetStderr(w io.Writer) {
	f.stderr = w
}

// Level returns the effective level.
func (f *LoggerFactory) Level() slog.Level {
	if f.cliLevel != "" {
		return LevelFromString(f.cliLevel)
	}
	return LevelFromString(f.config.Logging.Level)
}

// CLILogger logs to stderr only.
func (f *LoggerFactory) CLILogger() *slog.Logger {
	return NewLogger(f.stderr, f.Level())
}

// MCPLogger logs to stderr, because stdout carries the protocol, and also to
// ~/.repox/logs/mcp.log when logging.file is enabled. A log file that cannot
// be opened degrades to stderr only.
func (f *LoggerFactory) MCPLogger() *slog.Logger {
	level := f.Level()
	console := NewRepoxHandler(f.stderr, &slog.HandlerOptions{Level: level})
	if !f.config.Logging.File {
		return slog.New(console)
	}

	logPath, err := paths.GetMCPLogPath()
	if err != nil {
		return slog.New(console)
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return slog.New(console)
	}
	fileLogger, closer, err := NewFileLoggerWithRotation(logPath, level, f.config.Logging.MaxSize, f.config.Logging.MaxBackups)
	if err != nil {
		logger := slog.New(console)
		logger.Warn("Log file unavailable, logging to stderr only", "path", logPath, "error", err.Error())
		return logger
	}
	f.closers = append(f.closers, closer)
	return NewTeeLogger(console, fileLogger.Handler())
}

// Close closes all open log files.
func (f *LoggerFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
