// Package config loads repox configuration from ~/.repox/config.toml and
// REPOX_* environment variables.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"repox/internal/paths"
)

// Config represents the complete repox configuration
type Config struct {
	// ProjectsRoot is where relative repository names are resolved and
	// where list_projects looks for candidates.
	ProjectsRoot string `toml:"projectsRoot" mapstructure:"projectsRoot" json:"projectsRoot" yaml:"projectsRoot"`

	Query   QueryConfig   `toml:"query" mapstructure:"query" json:"query" yaml:"query"`
	Logging LoggingConfig `toml:"logging" mapstructure:"logging" json:"logging" yaml:"logging"`
	Journal JournalConfig `toml:"journal" mapstructure:"journal" json:"journal" yaml:"journal"`
	Chat    ChatConfig    `toml:"chat" mapstructure:"chat" json:"chat" yaml:"chat"`
}

// QueryConfig contains query engine defaults
type QueryConfig struct {
	DefaultMaxResults int `toml:"defaultMaxResults" mapstructure:"defaultMaxResults" json:"defaultMaxResults" yaml:"defaultMaxResults"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `toml:"level" mapstructure:"level" json:"level" yaml:"level"`
	File       bool   `toml:"file" mapstructure:"file" json:"file" yaml:"file"`
	MaxSize    string `toml:"maxSize" mapstructure:"maxSize" json:"maxSize" yaml:"maxSize"`
	MaxBackups int    `toml:"maxBackups" mapstructure:"maxBackups" json:"maxBackups" yaml:"maxBackups"`
}

// JournalConfig controls the tool-call journal
type JournalConfig struct {
	Enabled bool   `toml:"enabled" mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `toml:"path" mapstructure:"path" json:"path" yaml:"path"`
}

// ChatConfig controls the conversational front end
type ChatConfig struct {
	Provider     string `toml:"provider" mapstructure:"provider" json:"provider" yaml:"provider"`
	Model        string `toml:"model" mapstructure:"model" json:"model" yaml:"model"`
	MaxMessages  int    `toml:"maxMessages" mapstructure:"maxMessages" json:"maxMessages" yaml:"maxMessages"`
	MaxToolSteps int    `toml:"maxToolSteps" mapstructure:"maxToolSteps" json:"maxToolSteps" yaml:"maxToolSteps"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ProjectsRoot: "~/" + paths.DefaultProjectsDir,
		Query: QueryConfig{
			DefaultMaxResults: 50,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       false,
			MaxSize:    "10MB",
			MaxBackups: 3,
		},
		Journal: JournalConfig{
			Enabled: true,
		},
		Chat: ChatConfig{
			Provider:     "gemini",
			Model:        "gemini-2.5-flash",
			MaxMessages:  6,
			MaxToolSteps: 8,
		},
	}
}

// envBindings maps config keys to their environment variables.
var envBindings = map[string]string{
	"projectsRoot":            "REPOX_PROJECTS_ROOT",
	"query.defaultMaxResults": "REPOX_QUERY_DEFAULT_MAX_RESULTS",
	"logging.level":           "REPOX_LOGGING_LEVEL",
	"logging.file":            "REPOX_LOGGING_FILE",
	"logging.maxSize":         "REPOX_LOGGING_MAX_SIZE",
	"logging.maxBackups":      "REPOX_LOGGING_MAX_BACKUPS",
	"journal.enabled":         "REPOX_JOURNAL_ENABLED",
	"journal.path":            "REPOX_JOURNAL_PATH",
	"chat.provider":           "REPOX_CHAT_PROVIDER",
	"chat.model":              "REPOX_CHAT_MODEL",
	"chat.maxMessages":        "REPOX_CHAT_MAX_MESSAGES",
	"chat.maxToolSteps":       "REPOX_CHAT_MAX_TOOL_STEPS",
}

// Load reads configuration. An empty configPath means ~/.repox/config.toml,
// which may be absent; an explicit configPath must exist.
// Precedence: environment > file > defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	v.SetConfigType("toml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		dir, err := paths.GetRepoxDir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName("config")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !stderrors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	expanded, err := paths.ExpandHome(cfg.ProjectsRoot)
	if err != nil {
		return nil, err
	}
	cfg.ProjectsRoot = expanded

	if cfg.Journal.Path != "" {
		if cfg.Journal.Path, err = paths.ExpandHome(cfg.Journal.Path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("projectsRoot", d.ProjectsRoot)
	v.SetDefault("query.defaultMaxResults", d.Query.DefaultMaxResults)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.maxSize", d.Logging.MaxSize)
	v.SetDefault("logging.maxBackups", d.Logging.MaxBackups)
	v.SetDefault("journal.enabled", d.Journal.Enabled)
	v.SetDefault("journal.path", d.Journal.Path)
	v.SetDefault("chat.provider", d.Chat.Provider)
	v.SetDefault("chat.model", d.Chat.Model)
	v.SetDefault("chat.maxMessages", d.Chat.MaxMessages)
	v.SetDefault("chat.maxToolSteps", d.Chat.MaxToolSteps)
}

// JournalPath returns the configured journal path or the default location.
func (c *Config) JournalPath() (string, error) {
	if c.Journal.Path != "" {
		return c.Journal.Path, nil
	}
	return paths.GetJournalPath()
}

// WriteFile writes the configuration as TOML, creating parent directories.
func (c *Config) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return f.Close()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ProjectsRoot) == "" {
		return &ConfigError{Field: "projectsRoot", Message: "must not be empty"}
	}
	if c.Query.DefaultMaxResults <= 0 {
		return &ConfigError{Field: "query.defaultMaxResults", Message: "must be positive"}
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return &ConfigError{Field: "logging.level", Message: "unknown level " + c.Logging.Level}
	}
	if c.Logging.MaxBackups < 0 {
		return &ConfigError{Field: "logging.maxBackups", Message: "must not be negative"}
	}
	if c.Chat.MaxMessages <= 0 {
		return &ConfigError{Field: "chat.maxMessages", Message: "must be positive"}
	}
	if c.Chat.MaxToolSteps <= 0 {
		return &ConfigError{Field: "chat.maxToolSteps", Message: "must be positive"}
	}
	return nil
}

var validLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
