package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimgate/internal/policy"
)

var (
	ingestIndexPath string
	ingestWorkers   int
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <corpus-dir>",
	Short: "Index a directory of policy documents",
	Long: `Ingest reads every .txt and .md policy document in the given directory,
splits them into clause-sized passages, and (re)builds the retrieval index
the adjudication agent queries.

Example:
  claimgate ingest policies/ --policy-index policy.db`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestIndexPath, "policy-index", "policy.db", "policy clause index path")
	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 4, "concurrent ingestion workers")
}

func runIngest(cmd *cobra.Command, args []string) error {
	corpusDir := args[0]

	store, err := policy.Open(ingestIndexPath, 0)
	if err != nil {
		return fmt.Errorf("open policy index: %w", err)
	}
	defer store.Close()

	stats, err := store.IngestDir(context.Background(), corpusDir, ingestWorkers)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Printf("✓ Ingested %d documents (%d clauses)\n", stats.Documents, stats.Clauses)
	if stats.Failed > 0 {
		fmt.Fprintf(os.Stderr, "⚠ %d documents failed\n", stats.Failed)
	}

	return nil
}
