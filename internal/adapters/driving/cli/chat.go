package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	chatConversation string
	chatJSON         bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask questions about your documents",
	Long: `Answers a question from the indexed documents and cites the sources used.

With a question argument a single answer is printed. Without one, questions
are read line by line from stdin; on a terminal this is an interactive
session where /reset clears the conversation and /exit quits.

Turns are remembered per conversation id, so follow-up questions can refer
to earlier answers.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatConversation, "conversation", "c", "default", "conversation id")
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return notConfigured("chat")
	}

	ctx := commandContext(cmd)
	if len(args) > 0 {
		return askOnce(ctx, cmd, strings.Join(args, " "))
	}
	return runChatSession(ctx, cmd)
}

func askOnce(ctx context.Context, cmd *cobra.Command, question string) error {
	resp, err := chatService.Chat(ctx, question, chatConversation)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	if chatJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printAnswer(cmd, resp.Answer, resp.Sources)
	return nil
}

func runChatSession(ctx context.Context, cmd *cobra.Command) error {
	in := cmd.InOrStdin()
	interactive := isTerminal(in)
	if interactive {
		cmd.Printf("Chatting as conversation %q. Type /reset to start over, /exit to quit.\n\n", chatConversation)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if interactive {
			cmd.Print("> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			if err := chatService.Reset(ctx, chatConversation); err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}
			cmd.Println("Conversation cleared.")
			continue
		}

		resp, err := chatService.Chat(ctx, line, chatConversation)
		if err != nil {
			return fmt.Errorf("chat failed: %w", err)
		}
		printAnswer(cmd, resp.Answer, resp.Sources)
		cmd.Println()
	}
	return scanner.Err()
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
