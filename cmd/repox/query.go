package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"repox/internal/explorer"
	"repox/internal/project"
)

var (
	queryRepo       string
	queryFormat     string
	queryMaxResults int
	findName        string
	findExt         string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List candidate repositories under the projects root",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List every file in a repository",
	Args:  cobra.NoArgs,
	RunE:  runFiles,
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count the files in a repository",
	Args:  cobra.NoArgs,
	RunE:  runCount,
}

var catCmd = &cobra.Command{
	Use:   "cat <relative-path>",
	Short: "Print a file from a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runCat,
}

var grepCmd = &cobra.Command{
	Use:   "grep <query>",
	Short: "Search a repository for lines containing a literal string",
	Long: `Search every file for lines containing the query as a literal,
case-sensitive substring. Output lines have the form path:line: text.`,
	Args: cobra.ExactArgs(1),
	RunE: runGrep,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the detected project type and file count of a repository",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find files by name substring and/or extension",
	Example: `  repox find --repo myproject --name auth --ext .py
  repox find --ext .sql`,
	Args: cobra.NoArgs,
	RunE: runFind,
}

func init() {
	for _, c := range []*cobra.Command{projectsCmd, statusCmd, filesCmd, countCmd, catCmd, grepCmd, findCmd} {
		c.Flags().StringVar(&queryFormat, "format", string(FormatHuman), "Output format (human, json, yaml)")
		if c != projectsCmd {
			c.Flags().StringVar(&queryRepo, "repo", "", "Repository path or name under the projects root (default: current directory)")
		}
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{grepCmd, findCmd} {
		c.Flags().IntVar(&queryMaxResults, "max-results", 0, "Stop after this many results (default from config)")
	}
	findCmd.Flags().StringVar(&findName, "name", "", "Substring the file name must contain")
	findCmd.Flags().StringVar(&findExt, "ext", "", "Suffix the file name must end with, e.g. .go")
}

// openRepository builds an explorer and selects --repo, or the working
// directory when --repo is empty.
func openRepository() (*explorer.Explorer, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	exp := newExplorer(cfg, cliLogger(cfg))

	target := queryRepo
	if target == "" {
		if target, err = os.Getwd(); err != nil {
			return nil, "", err
		}
	}
	repo, err := exp.SelectRepository(target)
	if err != nil {
		return nil, "", err
	}
	return exp, repo, nil
}

// maxResults resolves --max-results against the config default.
func maxResults() (int, error) {
	if queryMaxResults > 0 {
		return queryMaxResults, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return 0, err
	}
	return cfg.Query.DefaultMaxResults, nil
}

func runProjects(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	exp := newExplorer(cfg, cliLogger(cfg))
	return printResponse(cmd, exp.ListProjects(), queryFormat)
}

func runFiles(cmd *cobra.Command, args []string) error {
	exp, _, err := openRepository()
	if err != nil {
		return err
	}
	files, err := exp.ListAllFiles()
	if err != nil {
		return err
	}
	return printResponse(cmd, files, queryFormat)
}

func runCount(cmd *cobra.Command, args []string) error {
	exp, _, err := openRepository()
	if err != nil {
		return err
	}
	count, err := exp.CountFiles()
	if err != nil {
		return err
	}
	return printResponse(cmd, count, queryFormat)
}

func runCat(cmd *cobra.Command, args []string) error {
	exp, _, err := openRepository()
	if err != nil {
		return err
	}
	content, err := exp.ReadFile(args[0])
	if err != nil {
		return err
	}
	if OutputFormat(queryFormat) == FormatHuman {
		_, err = fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	return printResponse(cmd, content, queryFormat)
}

func runGrep(cmd *cobra.Command, args []string) error {
	limit, err := maxResults()
	if err != nil {
		return err
	}
	exp, _, err := openRepository()
	if err != nil {
		return err
	}
	matches, err := exp.Search(args[0], limit)
	if err != nil {
		return err
	}
	if err := printResponse(cmd, matches, queryFormat); err != nil {
		return err
	}
	noteTruncation(cmd, len(matches), limit)
	return nil
}

func runFind(cmd *cobra.Command, args []string) error {
	limit, err := maxResults()
	if err != nil {
		return err
	}
	exp, _, err := openRepository()
	if err != nil {
		return err
	}
	hits, err := exp.FindFiles(explorer.FindOptions{
		NameSubstring: findName,
		Extension:     findExt,
		MaxResults:    limit,
	})
	if err != nil {
		return err
	}
	if err := printResponse(cmd, hits, queryFormat); err != nil {
		return err
	}
	noteTruncation(cmd, len(hits), limit)
	return nil
}

// noteTruncation tells a human reader on stderr that results were capped.
func noteTruncation(cmd *cobra.Command, shown, limit int) {
	if OutputFormat(queryFormat) == FormatHuman && limit > 0 && shown >= limit {
		fmt.Fprintf(cmd.ErrOrStderr(), "(stopped at %d results; raise --max-results for more)\n", limit)
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	exp, repo, err := openRepository()
	if err != nil {
		return err
	}
	count, err := exp.CountFiles()
	if err != nil {
		return err
	}
	return printResponse(cmd, &repoSummary{
		Path:    repo,
		Project: project.Detect(repo),
		Files:   count,
	}, queryFormat)
}

// repoSummary is printed by `repox status`.
type repoSummary struct {
	Path    string       `json:"path" yaml:"path"`
	Project project.Info `json:"project" yaml:"project"`
	Files   int          `json:"files" yaml:"files"`
}
