package cmd

import (
	"context"
	"fmt"
	"os"

	"golang-recon-agent/cmd/reconagent/config"
	"golang-recon-agent/internal/ingest"
	"golang-recon-agent/internal/models"
	"golang-recon-agent/internal/parsers"
	"golang-recon-agent/internal/store"
	"golang-recon-agent/internal/tokenizer"

	"github.com/spf13/cobra"
)

// Flags for the ingest command
var (
	schemeFile string
	bankFile   string
	resetFirst bool
	batchSize  int
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load fixed-width feed files into the document store",
	Long: `Ingest reads one or both feed files line by line, keeps only detail
records (type 11), tokenizes the payment reference, attaches file/line
provenance and writes the records in unordered batches.

At least one of --scheme-file or --bank-file is required.

Examples:
  reconagent ingest --scheme-file Files/Scheme/D0406 --bank-file Files/Bank/BN251106.001
  reconagent ingest --bank-file BN251106.001 --reset`,

	PreRunE: validateIngestFlags,
	RunE:    runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&schemeFile, "scheme-file", "", "path to the scheme feed file")
	ingestCmd.Flags().StringVar(&bankFile, "bank-file", "", "path to the bank feed file")
	ingestCmd.Flags().BoolVar(&resetFirst, "reset", false, "delete existing records for the ingested sides first")
	ingestCmd.Flags().IntVar(&batchSize, "batch-size", 0, "bulk insert batch size (default from RECON_BATCH_SIZE)")
}

func validateIngestFlags(cmd *cobra.Command, args []string) error {
	if schemeFile == "" && bankFile == "" {
		return fmt.Errorf("at least one of --scheme-file or --bank-file is required")
	}

	for _, path := range []string{schemeFile, bankFile} {
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			return fmt.Errorf("feed file does not exist: %s", path)
		}
		if err != nil {
			return fmt.Errorf("error accessing feed file %s: %w", path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("feed path is a directory, expected a file: %s", path)
		}
	}

	if batchSize < 0 {
		return fmt.Errorf("batch size cannot be negative")
	}

	return nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	documentStore, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		return err
	}
	defer documentStore.Close(ctx)

	tok, err := tokenizer.New(cfg.TokenKey)
	if err != nil {
		return err
	}

	pipelineConfig := ingest.DefaultConfig()
	pipelineConfig.BatchSize = cfg.BatchSize
	if batchSize > 0 {
		pipelineConfig.BatchSize = batchSize
	}

	pipeline, err := ingest.NewPipeline(parsers.NewParser(tok), documentStore, pipelineConfig)
	if err != nil {
		return err
	}

	sides := []struct {
		path string
		side models.Side
	}{
		{schemeFile, models.SideScheme},
		{bankFile, models.SideBank},
	}

	if resetFirst {
		for _, target := range sides {
			if target.path == "" {
				continue
			}
			removed, err := documentStore.PurgeRecords(ctx, target.side)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Removed %d existing %s records\n", removed, target.side)
		}
	}

	if err := pipeline.EnsureIndexes(ctx); err != nil {
		return err
	}

	for _, target := range sides {
		if target.path == "" {
			continue
		}

		counters, err := pipeline.IngestFile(ctx, target.path, target.side)
		if err != nil {
			return err
		}

		fmt.Printf("Ingested %d %s detail records from %d lines", counters.RecordsInserted, target.side, counters.LinesScanned)
		if failures := counters.PartialFailures(); failures > 0 {
			fmt.Printf(" (%d records failed to insert)", failures)
		}
		fmt.Println()
	}

	return nil
}
