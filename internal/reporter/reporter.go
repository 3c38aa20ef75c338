// Package reporter writes reconciliation results to CSV report files and
// renders the console run summary.
//
// The CSV sink is deliberately generic: it takes an explicit ordered
// header list and rows as column-to-value maps, writes one header line and
// one line per row, and leaves a cell empty when a row lacks that column.
package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"golang-recon-agent/internal/classifier"
	"golang-recon-agent/internal/matcher"
	"golang-recon-agent/internal/models"
	"golang-recon-agent/pkg/logger"

	"github.com/shopspring/decimal"
)

// Column headers for the three report files
var (
	MatchedHeaders = []string{
		"rf", "amount_int", "date1", "date2", "date3",
		"scheme_file", "scheme_line", "bank_file", "bank_line",
	}

	SchemeUnmatchedHeaders = []string{
		"rf", "amount_int", "date1", "date2", "date3",
		"scheme_file", "scheme_line", "reason",
	}

	BankUnmatchedHeaders = []string{
		"rf", "amount_int", "date1", "date2", "date3",
		"bank_file", "bank_line", "reason",
	}
)

// ReportConfig holds configuration for report generation
type ReportConfig struct {
	// ReportsDir is the directory report files are written into; it is
	// created on demand.
	ReportsDir string `json:"reports_dir"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		ReportsDir: "reports",
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if c.ReportsDir == "" {
		return fmt.Errorf("reports directory cannot be empty")
	}

	return nil
}

// ReportWriter exports reconciliation results
type ReportWriter struct {
	config     *ReportConfig
	classifier *classifier.Classifier
	log        logger.Logger
}

// NewReportWriter creates a report writer with the given configuration
func NewReportWriter(config *ReportConfig, cls *classifier.Classifier) (*ReportWriter, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	if cls == nil {
		cls = classifier.NewClassifier()
	}

	return &ReportWriter{
		config:     config,
		classifier: cls,
		log:        logger.GetGlobalLogger().WithComponent("reporter"),
	}, nil
}

// ExportCSV writes rows to w with the given column order. Cells for
// missing keys stay empty.
func ExportCSV(w io.Writer, headers []string, rows []map[string]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(headers))
	for _, row := range rows {
		for i, header := range headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// exportFile writes one report file under the configured reports directory
func (rw *ReportWriter) exportFile(name string, headers []string, rows []map[string]string) (string, error) {
	if err := os.MkdirAll(rw.config.ReportsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	path := filepath.Join(rw.config.ReportsDir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := ExportCSV(file, headers, rows); err != nil {
		return "", err
	}

	return path, nil
}

// WriteReports writes the matched, scheme-unmatched and bank-unmatched
// CSV files for a result and returns the written paths in that order.
func (rw *ReportWriter) WriteReports(result *matcher.MatchResult) ([]string, error) {
	date := result.BusinessDate

	matched, err := rw.exportFile(
		fmt.Sprintf("matched_%s.csv", date),
		MatchedHeaders, matchedRows(result.Matched))
	if err != nil {
		return nil, err
	}

	schemeUnmatched, err := rw.exportFile(
		fmt.Sprintf("scheme_unmatched_%s.csv", date),
		SchemeUnmatchedHeaders, rw.schemeUnmatchedRows(result.SchemeOnly))
	if err != nil {
		return nil, err
	}

	bankUnmatched, err := rw.exportFile(
		fmt.Sprintf("bank_unmatched_%s.csv", date),
		BankUnmatchedHeaders, rw.bankUnmatchedRows(result.BankOnly))
	if err != nil {
		return nil, err
	}

	paths := []string{matched, schemeUnmatched, bankUnmatched}
	rw.log.WithField("reports", paths).Info("reports written")
	return paths, nil
}

func amountCell(amount *int64) string {
	if amount == nil {
		return ""
	}
	return fmt.Sprintf("%d", *amount)
}

func matchedRows(pairs []matcher.MatchedPair) []map[string]string {
	rows := make([]map[string]string, 0, len(pairs))
	for _, pair := range pairs {
		rows = append(rows, map[string]string{
			"rf":          pair.Reference,
			"amount_int":  amountCell(pair.AmountInt),
			"date1":       pair.Date1,
			"date2":       pair.Date2,
			"date3":       pair.Date3,
			"scheme_file": pair.SchemeFile,
			"scheme_line": fmt.Sprintf("%d", pair.SchemeLine),
			"bank_file":   pair.BankFile,
			"bank_line":   fmt.Sprintf("%d", pair.BankLine),
		})
	}

	return rows
}

func (rw *ReportWriter) schemeUnmatchedRows(records []*models.Record) []map[string]string {
	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, map[string]string{
			"rf":          record.Reference,
			"amount_int":  amountCell(record.AmountInt),
			"date1":       record.Date1,
			"date2":       record.Date2,
			"date3":       record.Date3,
			"scheme_file": record.FileName,
			"scheme_line": fmt.Sprintf("%d", record.LineNo),
			"reason":      classifier.ReasonNotInBank.String(),
		})
	}

	return rows
}

func (rw *ReportWriter) bankUnmatchedRows(records []*models.Record) []map[string]string {
	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, map[string]string{
			"rf":         record.Reference,
			"amount_int": amountCell(record.AmountInt),
			"date1":      record.Date1,
			"date2":      record.Date2,
			"date3":      record.Date3,
			"bank_file":  record.FileName,
			"bank_line":  fmt.Sprintf("%d", record.LineNo),
			"reason":     rw.classifier.Classify(record).String(),
		})
	}

	return rows
}

// PrintSummary renders the console run summary: per-bucket counts, the
// matched amount total, the bank-unmatched reason tally (descending) and
// the generated suggestions.
func PrintSummary(w io.Writer, result *matcher.MatchResult, tally map[classifier.ReasonCode]int, suggestions []string) {
	fmt.Fprintf(w, "\n=== RECON RESULTS (%s) ===\n", result.BusinessDate)
	counts := result.Counts()
	fmt.Fprintf(w, "Scheme records:   %d\n", counts.SchemeRecords)
	fmt.Fprintf(w, "Bank records:     %d\n", counts.BankRecords)
	fmt.Fprintf(w, "Matched:          %d\n", counts.Matched)
	fmt.Fprintf(w, "Unmatched scheme: %d\n", counts.SchemeUnmatched)
	fmt.Fprintf(w, "Unmatched bank:   %d\n", counts.BankUnmatched)

	fmt.Fprintf(w, "Matched amount total: %s\n", MatchedAmountTotal(result.Matched).String())

	if len(result.DuplicateKeyGroups) > 0 {
		fmt.Fprintf(w, "\nDuplicate key groups (collapsed to one decision each):\n")
		for _, group := range result.DuplicateKeyGroups {
			fmt.Fprintf(w, " - %s RF=%s x%d\n", group.Side, group.Reference, group.Count)
		}
	}

	if len(tally) > 0 {
		fmt.Fprintf(w, "\nTop bank-unmatched reasons:\n")
		for _, entry := range sortTally(tally) {
			fmt.Fprintf(w, " - %s: %d\n", entry.reason, entry.count)
		}
	}

	fmt.Fprintf(w, "\nSuggestions:\n")
	for _, suggestion := range suggestions {
		fmt.Fprintf(w, " - %s\n", suggestion)
	}
}

// MatchedAmountTotal sums matched amounts as a decimal so large feeds
// render without wrap-around.
func MatchedAmountTotal(pairs []matcher.MatchedPair) decimal.Decimal {
	total := decimal.Zero
	for _, pair := range pairs {
		if pair.AmountInt != nil {
			total = total.Add(decimal.NewFromInt(*pair.AmountInt))
		}
	}

	return total
}

type tallyEntry struct {
	reason classifier.ReasonCode
	count  int
}

func sortTally(tally map[classifier.ReasonCode]int) []tallyEntry {
	entries := make([]tallyEntry, 0, len(tally))
	for reason, count := range tally {
		entries = append(entries, tallyEntry{reason: reason, count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].reason < entries[j].reason
	})

	return entries
}
