package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Ingest documents as they change",
	Long: `Watches the documents directory. New files are ingested as they appear.
Saving a file that is already indexed rebuilds the index so the old text is
dropped. Runs until interrupted. Deleted files stay in the index until the
next rebuild.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before a change is processed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}

	dir := settingsOrDefaults().Paths.Documents
	w := watcher.New(ingestService, dir,
		watcher.WithDebounce(watchDebounce),
		watcher.WithFilter(supportsFile),
		watcher.WithNotify(func(r watcher.Result) {
			switch {
			case r.Err != nil && r.Rebuilt:
				cmd.PrintErrf("Failed to rebuild index: %v\n", r.Err)
			case r.Err != nil:
				cmd.PrintErrf("Failed to ingest %s: %v\n", r.Path, r.Err)
			case r.Rebuilt:
				cmd.Printf("Rebuilt index: %d chunks\n", r.Chunks)
			default:
				cmd.Printf("Ingested %s: %d chunks\n", r.Path, r.Chunks)
			}
		}),
	)

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	return w.Run(commandContext(cmd))
}
