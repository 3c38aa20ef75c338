package cmd

import (
	"context"
	"fmt"
	"os"

	"golang-recon-agent/cmd/reconagent/config"
	"golang-recon-agent/internal/classifier"
	"golang-recon-agent/internal/feedback"
	"golang-recon-agent/internal/matcher"
	"golang-recon-agent/internal/reporter"
	"golang-recon-agent/internal/store"

	"github.com/spf13/cobra"
)

// Flags for the reconcile command
var (
	businessDate  string
	reportsDir    string
	interactive   bool
	maxLabelCases int
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the scheme and bank feeds for a business date",
	Long: `Reconcile loads both sides' stored records for a business date,
partitions them into matched, scheme-unmatched and bank-unmatched
buckets, explains the bank-unmatched records, writes CSV reports and
records the run summary.

With --interactive (the default) the run ends with a bounded labeling
loop over bank-unmatched cases; type 'stop' to finish early.

Examples:
  reconagent reconcile --date 20251107
  reconagent reconcile --date 20251107 --reports-dir /tmp/reports --interactive=false`,

	PreRunE: validateReconcileFlags,
	RunE:    runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVarP(&businessDate, "date", "D", "", "business date to reconcile (YYYYMMDD); prompted for when omitted")
	reconcileCmd.Flags().StringVar(&reportsDir, "reports-dir", "", "report output directory (default from RECON_REPORTS_DIR)")
	reconcileCmd.Flags().BoolVar(&interactive, "interactive", true, "offer the feedback labeling loop after the run")
	reconcileCmd.Flags().IntVar(&maxLabelCases, "max-label-cases", feedback.DefaultMaxLabelCases, "maximum unmatched cases offered for labeling")
}

func validateReconcileFlags(cmd *cobra.Command, args []string) error {
	if maxLabelCases <= 0 {
		return fmt.Errorf("max label cases must be positive")
	}

	if businessDate != "" {
		return matcher.ValidateBusinessDate(businessDate)
	}

	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	prompter := feedback.NewConsolePrompter(os.Stdin, os.Stdout)

	if businessDate == "" {
		if !interactive {
			return fmt.Errorf("--date is required when not running interactively")
		}
		answer, err := prompter.Ask("Enter date as YYYYMMDD (example: 20251107)")
		if err != nil {
			return err
		}
		businessDate = answer
	}

	if err := matcher.ValidateBusinessDate(businessDate); err != nil {
		return err
	}

	documentStore, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		return err
	}
	defer documentStore.Close(ctx)

	engine := matcher.NewEngine(documentStore)
	result, err := engine.Reconcile(ctx, businessDate)
	if err != nil {
		return err
	}

	cls := classifier.NewClassifier()
	tally := cls.Tally(result.BankOnly)
	suggestions := classifier.Suggest(tally)

	reportConfig := reporter.DefaultReportConfig()
	reportConfig.ReportsDir = cfg.ReportsDir
	if reportsDir != "" {
		reportConfig.ReportsDir = reportsDir
	}

	writer, err := reporter.NewReportWriter(reportConfig, cls)
	if err != nil {
		return err
	}

	paths, err := writer.WriteReports(result)
	if err != nil {
		return err
	}

	reporter.PrintSummary(os.Stdout, result, tally, suggestions)

	fmt.Println("\nReports saved:")
	for _, path := range paths {
		fmt.Printf(" - %s\n", path)
	}

	recorder := feedback.NewRecorder(documentStore, documentStore)
	if _, err := recorder.RecordRun(ctx, businessDate, result.Counts(), suggestions); err != nil {
		return err
	}

	if interactive {
		recorded, err := feedback.CollectFeedback(ctx, prompter, recorder, cls, businessDate, result.BankOnly, maxLabelCases)
		if err != nil {
			return err
		}
		if recorded > 0 {
			fmt.Printf("\nStored %d feedback entries. Future runs can use these labels to improve explanations.\n", recorded)
		}
	}

	return nil
}
