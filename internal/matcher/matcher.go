// Package matcher implements the key-based matching engine.
//
// For a validated business date it loads both sides' records filtered on
// date1, derives each record's reconciliation key and partitions the
// distinct keys into matched, scheme-only and bank-only sets. Matching is
// over key sets, not multisets: duplicate records sharing a key on one
// side collapse to a single matching decision, with the first record in
// load order acting as the representative and every duplicate group
// surfaced as a diagnostic.
package matcher

import (
	"context"
	"time"

	"golang-recon-agent/internal/models"
	"golang-recon-agent/internal/store"
	"golang-recon-agent/pkg/errors"
	"golang-recon-agent/pkg/logger"
)

// businessDateLayout is the wire form of business dates in the feeds
const businessDateLayout = "20060102"

// ValidateBusinessDate checks that the input is an 8-digit string naming a
// real calendar date. Invalid input is a fatal, user-visible error raised
// before any storage access.
func ValidateBusinessDate(date string) error {
	if len(date) != 8 {
		return errors.InputError(errors.CodeInvalidBusinessDate, "business_date", date, nil)
	}

	if _, err := time.Parse(businessDateLayout, date); err != nil {
		return errors.InputError(errors.CodeInvalidBusinessDate, "business_date", date, err)
	}

	return nil
}

// MatchedPair is one matched reconciliation key with provenance from both
// sides. The reference and amount are taken from the scheme-side
// representative record.
type MatchedPair struct {
	Reference  string `json:"rf"`
	AmountInt  *int64 `json:"amount_int"`
	Date1      string `json:"date1"`
	Date2      string `json:"date2"`
	Date3      string `json:"date3"`
	SchemeFile string `json:"scheme_file"`
	SchemeLine int    `json:"scheme_line"`
	BankFile   string `json:"bank_file"`
	BankLine   int    `json:"bank_line"`
}

// DuplicateGroup flags a reconciliation key that appeared on more than one
// record within a single side. The partition collapses the group to one
// decision; the diagnostic lets operators see what was collapsed.
type DuplicateGroup struct {
	Side      models.Side     `json:"side"`
	Key       models.ReconKey `json:"-"`
	Reference string          `json:"rf"`
	Count     int             `json:"count"`
}

// MatchResult is the outcome of one reconciliation partition
type MatchResult struct {
	BusinessDate string

	// SchemeRecords and BankRecords are the raw per-side record counts
	// loaded for the date, before duplicate keys collapse.
	SchemeRecords int
	BankRecords   int

	Matched    []MatchedPair
	SchemeOnly []*models.Record
	BankOnly   []*models.Record

	DuplicateKeyGroups []DuplicateGroup
}

// Counts summarizes the result for run recording
func (r *MatchResult) Counts() models.RunCounts {
	return models.RunCounts{
		SchemeRecords:   r.SchemeRecords,
		BankRecords:     r.BankRecords,
		Matched:         len(r.Matched),
		SchemeUnmatched: len(r.SchemeOnly),
		BankUnmatched:   len(r.BankOnly),
	}
}

// Engine partitions stored records for a business date
type Engine struct {
	store store.RecordStore
	log   logger.Logger
}

// NewEngine creates a matching engine over the given record store
func NewEngine(recordStore store.RecordStore) *Engine {
	return &Engine{
		store: recordStore,
		log:   logger.GetGlobalLogger().WithComponent("matcher"),
	}
}

// keyIndex holds one side's records grouped by reconciliation key while
// preserving first-seen key order
type keyIndex struct {
	order []models.ReconKey
	first map[models.ReconKey]*models.Record
	count map[models.ReconKey]int
}

func buildKeyIndex(records []*models.Record) *keyIndex {
	idx := &keyIndex{
		first: make(map[models.ReconKey]*models.Record, len(records)),
		count: make(map[models.ReconKey]int, len(records)),
	}

	for _, record := range records {
		key := record.Key()
		if _, seen := idx.first[key]; !seen {
			idx.first[key] = record
			idx.order = append(idx.order, key)
		}
		idx.count[key]++
	}

	return idx
}

// Reconcile validates the business date, loads both sides filtered on
// date1 and partitions the distinct keys. It never mutates stored records;
// re-running over the same stored data yields the same three sets.
func (e *Engine) Reconcile(ctx context.Context, businessDate string) (*MatchResult, error) {
	if err := ValidateBusinessDate(businessDate); err != nil {
		return nil, err
	}

	schemeRecords, err := e.store.FindByDate1(ctx, models.SideScheme, businessDate)
	if err != nil {
		return nil, err
	}

	bankRecords, err := e.store.FindByDate1(ctx, models.SideBank, businessDate)
	if err != nil {
		return nil, err
	}

	schemeIdx := buildKeyIndex(schemeRecords)
	bankIdx := buildKeyIndex(bankRecords)

	result := &MatchResult{
		BusinessDate:  businessDate,
		SchemeRecords: len(schemeRecords),
		BankRecords:   len(bankRecords),
	}

	// Matched and scheme-only buckets follow scheme load order
	for _, key := range schemeIdx.order {
		schemeRec := schemeIdx.first[key]
		if bankRec, ok := bankIdx.first[key]; ok {
			result.Matched = append(result.Matched, MatchedPair{
				Reference:  schemeRec.Reference,
				AmountInt:  schemeRec.AmountInt,
				Date1:      schemeRec.Date1,
				Date2:      schemeRec.Date2,
				Date3:      schemeRec.Date3,
				SchemeFile: schemeRec.FileName,
				SchemeLine: schemeRec.LineNo,
				BankFile:   bankRec.FileName,
				BankLine:   bankRec.LineNo,
			})
		} else {
			result.SchemeOnly = append(result.SchemeOnly, schemeRec)
		}
	}

	// Bank-only bucket follows bank load order
	for _, key := range bankIdx.order {
		if _, ok := schemeIdx.first[key]; !ok {
			result.BankOnly = append(result.BankOnly, bankIdx.first[key])
		}
	}

	result.DuplicateKeyGroups = append(
		collectDuplicates(models.SideScheme, schemeIdx),
		collectDuplicates(models.SideBank, bankIdx)...)

	e.log.WithFields(logger.Fields{
		"date":             businessDate,
		"scheme_records":   result.SchemeRecords,
		"bank_records":     result.BankRecords,
		"matched":          len(result.Matched),
		"scheme_unmatched": len(result.SchemeOnly),
		"bank_unmatched":   len(result.BankOnly),
		"duplicate_groups": len(result.DuplicateKeyGroups),
	}).Info("reconciliation partition complete")

	return result, nil
}

func collectDuplicates(side models.Side, idx *keyIndex) []DuplicateGroup {
	var groups []DuplicateGroup
	for _, key := range idx.order {
		if idx.count[key] > 1 {
			groups = append(groups, DuplicateGroup{
				Side:      side,
				Key:       key,
				Reference: idx.first[key].Reference,
				Count:     idx.count[key],
			})
		}
	}

	return groups
}
