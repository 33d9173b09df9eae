package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	compareJSON bool
	compareDiff bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <file-a> <file-b>",
	Short: "Compare two documents",
	Long: `Extracts the text of two documents and reports how similar they are,
how many lines were added and removed, and a sample of the changes.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "output the comparison as JSON")
	compareCmd.Flags().BoolVar(&compareDiff, "diff", false, "print the unified diff")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	if compareService == nil {
		return notConfigured("compare")
	}

	res, err := compareService.CompareFiles(commandContext(cmd), args[0], args[1])
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	if compareJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal comparison: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(res.Verdict.Description())
	cmd.Printf("  Similarity: %.1f%%\n", res.SimilarityRatio*100)
	cmd.Printf("  Added lines: %d\n", res.AddedLines)
	cmd.Printf("  Removed lines: %d\n", res.RemovedLines)
	for _, line := range res.SampleAdded {
		cmd.Printf("  + %s\n", line)
	}
	for _, line := range res.SampleRemoved {
		cmd.Printf("  - %s\n", line)
	}
	if compareDiff && res.UnifiedDiff != "" {
		cmd.Println()
		cmd.Print(res.UnifiedDiff)
	}
	return nil
}
