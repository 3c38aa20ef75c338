package cmd

import (
	"context"
	"fmt"
	"os"

	"golang-recon-agent/cmd/reconagent/config"
	"golang-recon-agent/internal/feedback"
	"golang-recon-agent/internal/models"
	"golang-recon-agent/internal/store"

	"github.com/spf13/cobra"
)

var purgeConfirmed bool

// purgeCmd represents the purge command
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all stored scheme and bank records",
	Long: `Purge removes every record from both transaction collections, typically
before reloading demo or replay data. Run summaries and feedback entries
are never touched.

Examples:
  reconagent purge --yes`,

	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().BoolVarP(&purgeConfirmed, "yes", "y", false, "skip the confirmation prompt")
}

func runPurge(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if !purgeConfirmed {
		prompter := feedback.NewConsolePrompter(os.Stdin, os.Stdout)
		confirmed, err := prompter.AskYesNo("Delete ALL stored scheme and bank records?")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	documentStore, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		return err
	}
	defer documentStore.Close(ctx)

	for _, side := range []models.Side{models.SideScheme, models.SideBank} {
		removed, err := documentStore.PurgeRecords(ctx, side)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d %s records\n", removed, side)
	}

	return nil
}
