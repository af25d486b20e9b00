package main

import (
	"github.com/spf13/cobra"

	"repox/internal/journal"
	"repox/internal/mcp"
	"repox/internal/slogutil"
	"repox/internal/version"
)

var mcpNoJournal bool

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start the Model Context Protocol (MCP) server.

The server speaks JSON-RPC 2.0 over stdin/stdout, one message per line.
Logs go to stderr and, when logging.file is enabled, ~/.repox/logs/mcp.log.

The server exposes the following tools:
  - list_projects: Folders under the projects root
  - set_repo: Select the repository to explore
  - list_all_files: Every file in the repository
  - read_file: Full text of one file
  - count_files: Number of files
  - search_in_repo: Lines containing a literal string
  - find_files: Files by name substring and/or extension
  - get_status: Active repository and projects root

This command is typically invoked by MCP clients (including repox chat)
and not directly by users.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpNoJournal, "no-journal", false, "Do not record tool calls")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	factory := slogutil.NewLoggerFactory(cfg, logLevel)
	defer func() { _ = factory.Close() }()
	logger := factory.MCPLogger()

	server := mcp.NewMCPServer(version.Version, newExplorer(cfg, logger), logger)
	server.SetDefaultMaxResults(cfg.Query.DefaultMaxResults)

	if cfg.Journal.Enabled && !mcpNoJournal {
		path, err := cfg.JournalPath()
		if err != nil {
			return err
		}
		store, err := journal.Open(path, logger)
		if err != nil {
			// The journal is optional; serve without it.
			logger.Warn("Journal unavailable", "path", path, "error", err.Error())
		} else {
			defer func() { _ = store.Close() }()
			server.SetJournal(store)
		}
	}

	if err := server.Start(); err != nil {
		logger.Error("MCP server error", "error", err.Error())
		return err
	}
	return nil
}
