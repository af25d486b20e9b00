package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"repox/internal/chat"
	"repox/internal/mcp"
	"repox/internal/version"
)

var chatModel string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about a repository in the terminal",
	Long: `Start an interactive session with an LLM that explores repositories
through a repox MCP server started in the background.

The Gemini API key is read from GEMINI_API_KEY or GOOGLE_API_KEY; a .env
file in the working directory is loaded first. The last three exchanges
are kept as context. Type exit, quit or q (or press Ctrl-D) to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatModel, "model", "", "Model name (default from config)")
	rootCmd.AddCommand(chatCmd)
}

// asker is satisfied by *chat.Session.
type asker interface {
	Ask(ctx context.Context, input string) (string, error)
}

var exitWords = map[string]bool{"exit": true, "quit": true, "q": true}

func runChat(cmd *cobra.Command, args []string) error {
	// A missing .env is fine; the key may already be in the environment.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Chat.Provider != "gemini" {
		return fmt.Errorf("unsupported chat provider %q (supported: gemini)", cfg.Chat.Provider)
	}
	model := cfg.Chat.Model
	if chatModel != "" {
		model = chatModel
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	logger := cliLogger(cfg)

	exe, err := os.Executable()
	if err != nil {
		return err
	}
	client, err := mcp.StartProcess(ctx, exe, serverArgs(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if _, err := client.Initialize(ctx, version.Name+"-chat", version.Version); err != nil {
		return fmt.Errorf("MCP handshake failed: %w", err)
	}
	tools, err := chat.NewMCPToolBox(ctx, client)
	if err != nil {
		return err
	}

	gemini, err := chat.NewGeminiModel(ctx, "", model, cfg.Chat.MaxToolSteps, logger)
	if err != nil {
		return err
	}
	session := chat.NewSession(gemini, tools, cfg.Chat.MaxMessages, logger)
	logger.Debug("Chat session started", "session", session.ID(), "model", gemini.Name(), "tools", len(tools.Tools()))

	return runREPL(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), session)
}

// runREPL reads questions from in until EOF, an exit word, or ctx is done.
// A failed question is reported and the loop continues.
func runREPL(ctx context.Context, in io.Reader, out io.Writer, s asker) error {
	fmt.Fprint(out, "Repository Explorer\nType your question about the repo, or 'exit' to quit.\n\n")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, "You> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprint(out, "\nExiting.\n")
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprint(out, "\nExiting.\n")
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			continue
		}
		if exitWords[strings.ToLower(line)] {
			fmt.Fprint(out, "Exiting.\n")
			return nil
		}

		reply, err := s.Ask(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprint(out, "\nExiting.\n")
				return nil
			}
			fmt.Fprintf(out, "Error: %v\n\n", err)
			continue
		}
		fmt.Fprintf(out, "Assistant> %s\n\n", reply)
	}
}
