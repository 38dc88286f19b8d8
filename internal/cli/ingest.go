package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"legalrag/internal/usecase"
)

var ingestForce bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the corpus into the vector store",
	Long: `Load every *.txt file (and the structured bundle, when present) from the
resources directory into the configured collection.

Examples:
  legalrag ingest
  legalrag ingest --force   # ignore the ingest ledger and re-upsert everything`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVarP(&ingestForce, "force", "f", false, "re-ingest even if the corpus is unchanged")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ing := newIngestor(cfg, store)
	defer ing.Close()

	var bar *progressbar.ProgressBar
	ing.Progress = func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan]Upserting[reset]"),
			)
		}
		bar.Set(done)
	}

	result, err := ing.Ingest(context.Background(), ingestForce)
	if err != nil {
		if errors.Is(err, usecase.ErrNoDocuments) {
			fmt.Println(noDocumentsMessage(cfg))
		}
		return err
	}
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	if result.Skipped {
		fmt.Println("Corpus unchanged since last ingest; nothing to do (use --force to re-upsert).")
		return nil
	}

	fmt.Printf("Ingested %d chunks into collection %q.\n", result.Chunks, cfg.Chroma.Collection)
	return nil
}
