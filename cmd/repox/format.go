package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"repox/internal/explorer"
	"repox/internal/journal"
	"repox/internal/project"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatYAML:
		return formatYAML(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func printResponse(cmd *cobra.Command, resp interface{}, format string) error {
	out, err := FormatResponse(resp, OutputFormat(format))
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatYAML(resp interface{}) (string, error) {
	data, err := yaml.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case []string:
		return strings.Join(v, "\n"), nil
	case []explorer.Match:
		lines := make([]string, len(v))
		for i, m := range v {
			lines[i] = m.String()
		}
		return strings.Join(lines, "\n"), nil
	case *repoSummary:
		return formatSummaryHuman(v), nil
	case []journal.Entry:
		return formatEntriesHuman(v), nil
	case *journal.Entry:
		return formatEntryHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatSummaryHuman(s *repoSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Repository: %s\n", s.Path))
	b.WriteString(fmt.Sprintf("Project:    %s (%s)\n", s.Project.Name, project.LanguageDisplayName(s.Project.Language)))
	if s.Project.Manifest != "" {
		b.WriteString(fmt.Sprintf("Manifest:   %s\n", s.Project.Manifest))
	}
	b.WriteString(fmt.Sprintf("Files:      %d", s.Files))
	return b.String()
}

func formatEntriesHuman(entries []journal.Entry) string {
	if len(entries) == 0 {
		return "No recorded tool calls."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-36s  %-19s  %-14s  %-6s  %7s  %s\n", "ID", "TIME", "TOOL", "STATUS", "MS", "PARAMS"))
	for _, e := range entries {
		status := string(e.Status)
		if e.ErrorCode != "" {
			status += " " + e.ErrorCode
		}
		b.WriteString(fmt.Sprintf("%-36s  %-19s  %-14s  %-6s  %7d  %s\n",
			e.ID,
			e.CreatedAt.Local().Format(time.DateTime),
			e.Tool,
			status,
			e.DurationMs,
			e.Params))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func formatEntryHuman(e *journal.Entry) (string, error) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("ID:       %s\n", e.ID))
	b.WriteString(fmt.Sprintf("Session:  %s\n", e.SessionID))
	b.WriteString(fmt.Sprintf("Time:     %s\n", e.CreatedAt.Local().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Tool:     %s\n", e.Tool))
	b.WriteString(fmt.Sprintf("Params:   %s\n", e.Params))
	b.WriteString(fmt.Sprintf("Status:   %s\n", e.Status))
	if e.ErrorCode != "" {
		b.WriteString(fmt.Sprintf("Error:    %s\n", e.ErrorCode))
	}
	b.WriteString(fmt.Sprintf("Duration: %dms\n", e.DurationMs))

	if len(e.Result) > 0 {
		var pretty interface{}
		if err := json.Unmarshal(e.Result, &pretty); err != nil {
			b.WriteString("\n" + string(e.Result))
		} else {
			out, err := formatJSON(pretty)
			if err != nil {
				return "", err
			}
			b.WriteString("\nResult:\n" + out)
		}
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}
