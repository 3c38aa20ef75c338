// Package models defines the data model shared by the ingestion pipeline,
// the matching engine and the recorders: parsed feed records, the
// reconciliation key, persisted run summaries and operator feedback entries.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Side identifies which feed a record came from
type Side string

const (
	// SideScheme is the scheme feed
	SideScheme Side = "scheme"
	// SideBank is the bank feed
	SideBank Side = "bank"
)

// String returns the string representation of Side
func (s Side) String() string {
	return string(s)
}

// IsValid checks if the side is a supported feed layout
func (s Side) IsValid() bool {
	return s == SideScheme || s == SideBank
}

// ParseSide parses and validates a feed side from string
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scheme":
		return SideScheme, nil
	case "bank":
		return SideBank, nil
	default:
		return "", fmt.Errorf("invalid side '%s': must be scheme or bank", s)
	}
}

// DetailRecordType is the record-type marker of feed lines that carry
// transaction details; every other line is discarded during parsing.
const DetailRecordType = "11"

// Record is one parsed detail record from a fixed-width feed line.
//
// AmountInt is nil when the raw amount field is not composed entirely of
// decimal digits; such records still flow through matching and end up as
// unmatched candidates rather than ingestion errors. Provenance fields
// (Source, FileName, LineNo, Raw) are kept for audit and report
// traceability and never participate in matching.
type Record struct {
	RecordType     string `bson:"record_type" json:"record_type"`
	AmountRaw      string `bson:"amount_raw" json:"amount_raw"`
	AmountInt      *int64 `bson:"amount_int" json:"amount_int"`
	Date1          string `bson:"date1" json:"date1"`
	Date2          string `bson:"date2" json:"date2"`
	Date3          string `bson:"date3" json:"date3"`
	Reference      string `bson:"rf" json:"rf"`
	ReferenceToken string `bson:"rf_token" json:"rf_token"`

	Source   Side   `bson:"source" json:"source"`
	FileName string `bson:"file_name" json:"file_name"`
	LineNo   int    `bson:"line_no" json:"line_no"`
	Raw      string `bson:"raw" json:"raw"`
}

// Key derives the reconciliation key for the record
func (r *Record) Key() ReconKey {
	key := ReconKey{
		ReferenceToken: r.ReferenceToken,
		Date1:          r.Date1,
		Date2:          r.Date2,
		Date3:          r.Date3,
	}
	if r.AmountInt != nil {
		key.Amount = *r.AmountInt
		key.HasAmount = true
	}
	return key
}

// HasAmount reports whether the record carried a fully numeric amount
func (r *Record) HasAmount() bool {
	return r.AmountInt != nil
}

// String returns a string representation of the Record
func (r *Record) String() string {
	amount := "null"
	if r.AmountInt != nil {
		amount = fmt.Sprintf("%d", *r.AmountInt)
	}
	return fmt.Sprintf("Record{Side: %s, RF: %s, Amount: %s, Dates: %s/%s/%s, %s:%d}",
		r.Source, r.Reference, amount, r.Date1, r.Date2, r.Date3, r.FileName, r.LineNo)
}

// ReconKey is the 5-tuple two records must share to be considered the same
// transaction across sides. A nil amount is part of the key identity
// (HasAmount false), so two records with unparseable amounts and otherwise
// equal fields still key together.
type ReconKey struct {
	ReferenceToken string
	Date1          string
	Date2          string
	Date3          string
	Amount         int64
	HasAmount      bool
}

// AmountString renders the key amount for reports; empty when absent
func (k ReconKey) AmountString() string {
	if !k.HasAmount {
		return ""
	}
	return fmt.Sprintf("%d", k.Amount)
}

// RunCounts holds the per-bucket record counts of one reconciliation run
type RunCounts struct {
	SchemeRecords   int `bson:"scheme_records_for_date1" json:"scheme_records_for_date1"`
	BankRecords     int `bson:"bank_records_for_date1" json:"bank_records_for_date1"`
	Matched         int `bson:"matched" json:"matched"`
	SchemeUnmatched int `bson:"scheme_unmatched" json:"scheme_unmatched"`
	BankUnmatched   int `bson:"bank_unmatched" json:"bank_unmatched"`
}

// RunSummary is the immutable persisted record of one reconciliation run
type RunSummary struct {
	RunID       string    `bson:"run_id" json:"run_id"`
	Date1       string    `bson:"date1" json:"date1"`
	RunTS       time.Time `bson:"run_ts" json:"run_ts"`
	Counts      RunCounts `bson:"counts" json:"counts"`
	Suggestions []string  `bson:"suggestions" json:"suggestions"`
}

// FeedbackKind distinguishes which unmatched bucket a label refers to
type FeedbackKind string

const (
	FeedbackBankUnmatched   FeedbackKind = "bank_unmatched"
	FeedbackSchemeUnmatched FeedbackKind = "scheme_unmatched"
)

// IsValid checks if the feedback kind is one of the two unmatched buckets
func (k FeedbackKind) IsValid() bool {
	return k == FeedbackBankUnmatched || k == FeedbackSchemeUnmatched
}

// FeedbackEntry is an operator-supplied label attached to one unmatched
// record. Labels are free-form by design; the vocabulary is open so the
// heuristics can evolve from whatever operators actually write.
type FeedbackEntry struct {
	Date1     string       `bson:"date1" json:"date1"`
	Kind      FeedbackKind `bson:"kind" json:"kind"`
	Reference string       `bson:"rf" json:"rf"`
	AmountInt *int64       `bson:"amount_int" json:"amount_int"`
	Label     string       `bson:"label" json:"label"`
	Note      string       `bson:"note,omitempty" json:"note,omitempty"`
	TS        time.Time    `bson:"ts" json:"ts"`
}

// Validate performs basic validation on the FeedbackEntry
func (f *FeedbackEntry) Validate() error {
	if strings.TrimSpace(f.Date1) == "" {
		return fmt.Errorf("feedback date cannot be empty")
	}

	if !f.Kind.IsValid() {
		return fmt.Errorf("invalid feedback kind: %s", f.Kind)
	}

	if strings.TrimSpace(f.Label) == "" {
		return fmt.Errorf("feedback label cannot be empty")
	}

	return nil
}
