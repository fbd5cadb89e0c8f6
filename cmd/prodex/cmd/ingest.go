package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Re-ingest the whole catalog",
	Long: `Clear the document store and rebuild it from the configured catalog.
The snapshot backend is rewritten on completion.

Examples:
  prodex ingest
  prodex ingest --config ./config/prod.yaml`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.ingestion.ReIngestAll(ctx)
	if !res.Success {
		return fmt.Errorf("ingestion %s failed: %w", res.RunID, res.Err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:      %s\n", res.RunID)
	fmt.Fprintf(out, "Ingested: %d\n", res.Count)
	fmt.Fprintf(out, "Skipped:  %d\n", res.Skipped)
	fmt.Fprintf(out, "Duration: %s\n", res.Duration)
	for _, it := range res.Items {
		if !it.OK() {
			fmt.Fprintf(out, "  %s: %s (%v)\n", it.ID(), it.Status(), it.Err())
		}
	}
	return nil
}
