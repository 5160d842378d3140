package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimgate/internal/model"
	"github.com/ppiankov/claimgate/internal/pipeline"
)

var (
	processTimeout   time.Duration
	processIndexPath string
	processModel     string
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <claim-text-or-file>",
	Short: "Process a single claim and stream stage results to stdout",
	Long: `Process runs the full adjudication pipeline for one claim. The argument
is either the claim text itself or a path to an image or PDF of the claim.
Stage results are written to stdout as NDJSON, one line per stage.

Example:
  claimgate process "Member M-1042 consultation with Dr. Rao, $120, 2026-01-15"
  claimgate process scans/claim-0017.pdf --policy-index policy.db`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().DurationVar(&processTimeout, "timeout", 5*time.Minute, "overall processing timeout")
	processCmd.Flags().StringVar(&processIndexPath, "policy-index", "policy.db", "policy clause index path")
	processCmd.Flags().StringVar(&processModel, "llm-model", "gpt-4o-mini", "LLM model for extraction and adjudication")
}

func runProcess(cmd *cobra.Command, args []string) error {
	reference := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.Policy.IndexPath = processIndexPath
	cfg.LLM.Model = processModel

	p, store, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if verbose {
		fmt.Fprintf(os.Stderr, "Processing: %s\n", reference)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n\n", processTimeout)
	}

	enc := json.NewEncoder(os.Stdout)
	p.Stream(ctx, reference, func(msg pipeline.StageMessage) error {
		return enc.Encode(msg)
	})

	return nil
}
