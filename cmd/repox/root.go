package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"repox/internal/config"
	"repox/internal/explorer"
	"repox/internal/paths"
	"repox/internal/slogutil"
	"repox/internal/version"
)

var (
	// configPath is the --config flag; empty means ~/.repox/config.toml
	configPath string
	// logLevel is the --log-level flag; empty defers to the config
	logLevel string
	// projectsRootFlag overrides projectsRoot from the config
	projectsRootFlag string
)

var rootCmd = &cobra.Command{
	Use:   "repox",
	Short: "repox - repository explorer for LLM agents",
	Long: `repox lets an LLM agent explore source repositories on the local machine.

It serves a small set of read-only tools over the Model Context Protocol
(list projects, select a repository, list, count, read, search and find
files) and ships a terminal chat client that answers questions about a
repository by calling those tools.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("repox version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.repox/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&projectsRootFlag, "projects-root", "", "Directory holding candidate repositories")
}

// loadConfig loads the configuration and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if projectsRootFlag != "" {
		root, err := paths.ExpandHome(projectsRootFlag)
		if err != nil {
			return nil, err
		}
		cfg.ProjectsRoot = root
	}
	return cfg, nil
}

// cliLogger logs to stderr. One-shot commands stay quiet below warn unless
// --log-level asks for more.
func cliLogger(cfg *config.Config) *slog.Logger {
	level := logLevel
	if level == "" {
		level = "warn"
	}
	return slogutil.NewLoggerFactory(cfg, level).CLILogger()
}

func newExplorer(cfg *config.Config, logger *slog.Logger) *explorer.Explorer {
	return explorer.New(cfg.ProjectsRoot, logger)
}

// serverArgs are the global flags forwarded to a spawned `repox mcp`.
func serverArgs() []string {
	args := []string{"mcp"}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	if logLevel != "" {
		args = append(args, "--log-level", logLevel)
	}
	if projectsRootFlag != "" {
		args = append(args, "--projects-root", projectsRootFlag)
	}
	return args
}
