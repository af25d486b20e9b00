package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"repox/internal/journal"
)

var (
	journalLimit  int
	journalShow   string
	journalFormat string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recorded MCP tool calls",
	Long: `Show the tool calls recorded by repox mcp, newest first.

Examples:
  repox journal                 # Last 20 calls
  repox journal --limit 100     # Last 100 calls
  repox journal --show <id>     # One call with its full result`,
	Args: cobra.NoArgs,
	RunE: runJournal,
}

func init() {
	journalCmd.Flags().IntVar(&journalLimit, "limit", 20, "Number of calls to show (max 1000)")
	journalCmd.Flags().StringVar(&journalShow, "show", "", "Show a single call by ID")
	journalCmd.Flags().StringVar(&journalFormat, "format", string(FormatHuman), "Output format (human, json, yaml)")
	rootCmd.AddCommand(journalCmd)
}

// entryDetail adds the decoded result to an entry for json and yaml output.
type entryDetail struct {
	journal.Entry `yaml:",inline"`
	Result        interface{} `json:"result,omitempty" yaml:"result,omitempty"`
}

func runJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := cfg.JournalPath()
	if err != nil {
		return err
	}

	store, err := journal.Open(path, cliLogger(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if journalShow == "" {
		entries, err := store.Recent(journalLimit)
		if err != nil {
			return err
		}
		return printResponse(cmd, entries, journalFormat)
	}

	entry, err := store.Get(journalShow)
	if err != nil {
		if stderrors.Is(err, journal.ErrNotFound) {
			return fmt.Errorf("no journal entry with id %s", journalShow)
		}
		return err
	}
	if OutputFormat(journalFormat) == FormatHuman {
		return printResponse(cmd, entry, journalFormat)
	}

	detail := entryDetail{Entry: *entry}
	if len(entry.Result) > 0 {
		if err := json.Unmarshal(entry.Result, &detail.Result); err != nil {
			detail.Result = string(entry.Result)
		}
	}
	return printResponse(cmd, &detail, journalFormat)
}
