package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statusJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Add documents to the index",
	Long: `Extracts, chunks and embeds each file and adds it to the existing index.
Files outside the documents directory are copied into it first, so a later
rebuild includes them. Supported types: .txt, .md, .html, .docx, .pdf.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from the documents directory",
	Long: `Re-reads every supported file in the documents directory and replaces
the index. Chunks of deleted or changed files are dropped. Files that fail to
extract are reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and provider status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(statusCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}

	ctx := commandContext(cmd)
	for _, path := range args {
		res, err := ingestService.Ingest(ctx, path)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		cmd.Printf("Ingested %s: %d chunks (index holds %d)\n", res.Path, res.Chunks, res.IndexSize)
	}
	return nil
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}

	res, err := ingestService.Rebuild(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	cmd.Printf("Rebuilt index from %d files: %d chunks\n", res.Files, res.Chunks)
	if len(res.Skipped) > 0 {
		cmd.Printf("Skipped %d files:\n", len(res.Skipped))
		for _, path := range res.Skipped {
			cmd.Printf("  - %s\n", path)
		}
	}
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}

	status := ingestService.Status(commandContext(cmd))
	if statusJSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	ready := "not built"
	if status.Ready {
		ready = "ready"
	}
	cmd.Printf("Index: %s (%s)\n", ready, status.Path)
	cmd.Printf("  Chunks: %d\n", status.Chunks)
	if status.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", status.Dimensions)
	}
	cmd.Printf("Documents: %s\n", status.DocumentsDir)
	cmd.Printf("Embedding model: %s\n", status.EmbeddingModel)
	llm := status.LLMModel
	if llm == "" {
		llm = "(not configured)"
	}
	cmd.Printf("LLM model: %s\n", llm)
	return nil
}
