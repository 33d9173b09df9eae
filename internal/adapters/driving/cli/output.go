package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func printAnswer(cmd *cobra.Command, answer string, sources []domain.SourceRef) {
	cmd.Println(answer)
	if len(sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range sources {
		cmd.Printf("  [%d] %s\n", i+1, src.Filename)
	}
}

func printTurns(cmd *cobra.Command, turns []domain.Turn) {
	for _, turn := range turns {
		label := "You"
		if turn.Role == domain.RoleAssistant {
			label = "Assistant"
		}
		cmd.Printf("%s: %s\n", label, turn.Text)
		for _, src := range turn.Sources {
			cmd.Printf("    - %s\n", src.Filename)
		}
	}
}
