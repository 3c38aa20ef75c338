package reporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang-recon-agent/internal/classifier"
	"golang-recon-agent/internal/matcher"
	"golang-recon-agent/internal/models"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer

	headers := []string{"rf", "amount_int", "reason"}
	rows := []map[string]string{
		{"rf": "RF1", "amount_int": "1000", "reason": "X"},
		{"rf": "RF2", "reason": "Y"}, // no amount column
	}

	if err := ExportCSV(&buf, headers, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(records))
	}
	if strings.Join(records[0], ",") != "rf,amount_int,reason" {
		t.Errorf("unexpected header line: %v", records[0])
	}
	if records[1][1] != "1000" {
		t.Errorf("expected amount cell 1000, got %q", records[1][1])
	}
	if records[2][1] != "" {
		t.Errorf("missing column must render as empty cell, got %q", records[2][1])
	}
}

func TestExportCSVNoRows(t *testing.T) {
	var buf bytes.Buffer

	if err := ExportCSV(&buf, []string{"rf"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Header-only file, still well-formed
	if strings.TrimSpace(buf.String()) != "rf" {
		t.Errorf("expected header-only output, got %q", buf.String())
	}
}

func TestReportConfigValidate(t *testing.T) {
	if err := DefaultReportConfig().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}

	empty := &ReportConfig{ReportsDir: ""}
	if err := empty.Validate(); err == nil {
		t.Error("expected error for empty reports directory")
	}
}

func testResult() *matcher.MatchResult {
	return &matcher.MatchResult{
		BusinessDate:  "20251107",
		SchemeRecords: 2,
		BankRecords:   2,
		Matched: []matcher.MatchedPair{
			{
				Reference:  "RF1",
				AmountInt:  int64Ptr(1000),
				Date1:      "20251107",
				Date2:      "20251107",
				Date3:      "20251107",
				SchemeFile: "D0406",
				SchemeLine: 2,
				BankFile:   "BN251106.001",
				BankLine:   5,
			},
		},
		SchemeOnly: []*models.Record{
			{
				Reference: "RF2",
				AmountInt: int64Ptr(2000),
				Date1:     "20251107",
				Source:    models.SideScheme,
				FileName:  "D0406",
				LineNo:    3,
			},
		},
		BankOnly: []*models.Record{
			{
				Reference: "XX9",
				AmountInt: nil,
				Date1:     "20251107",
				Source:    models.SideBank,
				FileName:  "BN251106.001",
				LineNo:    6,
			},
		},
	}
}

func TestWriteReports(t *testing.T) {
	dir := t.TempDir()

	rw, err := NewReportWriter(&ReportConfig{ReportsDir: dir}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	paths, err := rw.WriteReports(testResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "matched_20251107.csv"),
		filepath.Join(dir, "scheme_unmatched_20251107.csv"),
		filepath.Join(dir, "bank_unmatched_20251107.csv"),
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 report paths, got %d", len(paths))
	}
	for i, path := range expected {
		if paths[i] != path {
			t.Errorf("expected path %q, got %q", path, paths[i])
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected report file at %q: %v", path, err)
		}
	}
}

func TestWriteReportsMatchedContent(t *testing.T) {
	dir := t.TempDir()

	rw, err := NewReportWriter(&ReportConfig{ReportsDir: dir}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := rw.WriteReports(testResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := os.Open(filepath.Join(dir, "matched_20251107.csv"))
	if err != nil {
		t.Fatalf("failed to open matched report: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(MatchedHeaders, ",") {
		t.Errorf("unexpected header: %v", records[0])
	}

	row := records[1]
	if row[0] != "RF1" || row[1] != "1000" {
		t.Errorf("unexpected matched row: %v", row)
	}
	if row[5] != "D0406" || row[6] != "2" || row[7] != "BN251106.001" || row[8] != "5" {
		t.Errorf("unexpected provenance cells: %v", row)
	}
}

func TestWriteReportsReasonColumns(t *testing.T) {
	dir := t.TempDir()

	rw, err := NewReportWriter(&ReportConfig{ReportsDir: dir}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := rw.WriteReports(testResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	schemeData, err := os.ReadFile(filepath.Join(dir, "scheme_unmatched_20251107.csv"))
	if err != nil {
		t.Fatalf("failed to read scheme-unmatched report: %v", err)
	}
	if !strings.Contains(string(schemeData), classifier.ReasonNotInBank.String()) {
		t.Error("scheme-unmatched rows must carry the fixed not-in-bank reason")
	}

	bankData, err := os.ReadFile(filepath.Join(dir, "bank_unmatched_20251107.csv"))
	if err != nil {
		t.Fatalf("failed to read bank-unmatched report: %v", err)
	}
	// The bank record carries a non-RF reference, so the classifier flags
	// its format
	if !strings.Contains(string(bankData), classifier.ReasonReferenceFormat.String()) {
		t.Error("bank-unmatched rows must carry a classified reason")
	}
	// Nil amount renders as an empty cell
	if !strings.Contains(string(bankData), "XX9,,") {
		t.Errorf("expected empty amount cell for nil amount, got:\n%s", bankData)
	}
}

func TestWriteReportsEmptyResult(t *testing.T) {
	dir := t.TempDir()

	rw, err := NewReportWriter(&ReportConfig{ReportsDir: dir}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := &matcher.MatchResult{BusinessDate: "20251107"}
	paths, err := rw.WriteReports(empty)
	if err != nil {
		t.Fatalf("empty result must still produce report files: %v", err)
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("expected header-only file at %q: %v", path, err)
			continue
		}
		if len(strings.Split(strings.TrimSpace(string(data)), "\n")) != 1 {
			t.Errorf("expected header-only content in %q", path)
		}
	}
}

func TestWriteReportsCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	rw, err := NewReportWriter(&ReportConfig{ReportsDir: dir}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := rw.WriteReports(testResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("reports directory should be created on demand: %v", err)
	}
}

func TestMatchedAmountTotal(t *testing.T) {
	pairs := []matcher.MatchedPair{
		{AmountInt: int64Ptr(1000)},
		{AmountInt: int64Ptr(2500)},
		{AmountInt: nil}, // skipped
	}

	total := MatchedAmountTotal(pairs)
	if total.String() != "3500" {
		t.Errorf("expected total 3500, got %s", total.String())
	}

	if MatchedAmountTotal(nil).String() != "0" {
		t.Error("expected zero total for no pairs")
	}
}

func TestSortTally(t *testing.T) {
	tally := map[classifier.ReasonCode]int{
		classifier.ReasonAmountMissing:   2,
		classifier.ReasonNotInScheme:     10,
		classifier.ReasonReferenceFormat: 2,
	}

	entries := sortTally(tally)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].reason != classifier.ReasonNotInScheme {
		t.Errorf("expected highest count first, got %s", entries[0].reason)
	}
	// Ties break on reason code for stable output
	if entries[1].reason != classifier.ReasonAmountMissing {
		t.Errorf("expected tie broken by code order, got %s", entries[1].reason)
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer

	result := testResult()
	cls := classifier.NewClassifier()
	tally := cls.Tally(result.BankOnly)
	suggestions := classifier.Suggest(tally)

	PrintSummary(&buf, result, tally, suggestions)
	out := buf.String()

	for _, want := range []string{
		"RECON RESULTS (20251107)",
		"Matched:          1",
		"Unmatched scheme: 1",
		"Unmatched bank:   1",
		"Matched amount total: 1000",
		"Suggestions:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
