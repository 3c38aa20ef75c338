// Package classifier explains why bank records failed to match and turns
// reason-code tallies into advisory suggestions for operators.
package classifier

import (
	"strings"

	"golang-recon-agent/internal/models"
)

// ReasonCode is a closed set of explanations for unmatched records. The
// classifier only ever produces these values; operator feedback labels,
// by contrast, stay free-form.
type ReasonCode string

const (
	// ReasonReferenceFormat: the reference code does not start with the
	// expected prefix marker, so it was likely extracted from the wrong
	// position or carried in another format.
	ReasonReferenceFormat ReasonCode = "REFERENCE_NOT_PRESENT_OR_DIFFERENT_FORMAT"

	// ReasonAmountMissing: the positional amount field was not a pure
	// digit string, so the record has no comparable integer amount.
	ReasonAmountMissing ReasonCode = "AMOUNT_NOT_NUMERIC_OR_MISSING"

	// ReasonNotInScheme: well-formed bank record with no counterpart key
	// on the scheme side for the queried date field.
	ReasonNotInScheme ReasonCode = "NOT_IN_SCHEME_FOR_PRIMARY_DATE"

	// ReasonNotInBank is the fixed reason attached to scheme-only records
	ReasonNotInBank ReasonCode = "NOT_IN_BANK_FOR_PRIMARY_DATE"
)

// String returns the string representation of ReasonCode
func (r ReasonCode) String() string {
	return string(r)
}

// DefaultReferencePrefix is the marker a well-formed payment reference
// starts with
const DefaultReferencePrefix = "RF"

// Classifier assigns reason codes to unmatched bank records
type Classifier struct {
	// ReferencePrefix is the expected leading marker of reference codes
	ReferencePrefix string
}

// NewClassifier creates a classifier with the default reference prefix
func NewClassifier() *Classifier {
	return &Classifier{ReferencePrefix: DefaultReferencePrefix}
}

// Classify returns the reason a bank-only record failed to match,
// evaluated in fixed priority order, first match wins. It is total: every
// record gets exactly one reason.
func (c *Classifier) Classify(record *models.Record) ReasonCode {
	if !strings.HasPrefix(record.Reference, c.ReferencePrefix) {
		return ReasonReferenceFormat
	}

	if record.AmountInt == nil {
		return ReasonAmountMissing
	}

	return ReasonNotInScheme
}

// Tally counts reason codes across a set of bank-only records
func (c *Classifier) Tally(records []*models.Record) map[ReasonCode]int {
	tally := make(map[ReasonCode]int)
	for _, record := range records {
		tally[c.Classify(record)]++
	}

	return tally
}
