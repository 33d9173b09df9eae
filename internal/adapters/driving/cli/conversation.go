package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	conversationID string
	historyJSON    bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear a conversation's history",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a conversation's stored turns",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	for _, c := range []*cobra.Command{resetCmd, historyCmd} {
		c.Flags().StringVarP(&conversationID, "conversation", "c", "default", "conversation id")
	}
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output turns as JSON")
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(historyCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return notConfigured("chat")
	}

	if err := chatService.Reset(commandContext(cmd), conversationID); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	cmd.Printf("Conversation %q cleared.\n", conversationID)
	return nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return notConfigured("chat")
	}

	turns, err := chatService.History(commandContext(cmd), conversationID)
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(turns, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(turns) == 0 {
		cmd.Println("No history.")
		return nil
	}
	printTurns(cmd, turns)
	return nil
}
