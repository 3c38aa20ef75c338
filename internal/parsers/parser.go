// Package parsers extracts transaction records from fixed-width feed lines.
//
// Only detail records (record type "11") are retained; every other line
// parses to nothing without raising an error. Field extraction is purely
// positional, driven by the per-side LayoutConfig, and all extracted
// fields are whitespace-trimmed.
package parsers

import (
	"strings"

	"golang-recon-agent/internal/models"
	"golang-recon-agent/internal/tokenizer"
)

// Parser parses fixed-width feed lines into records
type Parser struct {
	tokenizer *tokenizer.Tokenizer
}

// NewParser creates a Parser that tokenizes reference codes with the
// supplied tokenizer
func NewParser(tok *tokenizer.Tokenizer) *Parser {
	return &Parser{tokenizer: tok}
}

// ParseLine parses one raw feed line for the given side.
//
// It returns (nil, nil) when the line is not a detail record, a populated
// record when it is, and an error only for an unsupported side layout.
// A non-numeric amount is not an error: AmountInt stays nil and the record
// flows through as an unmatched candidate.
func (p *Parser) ParseLine(line string, side models.Side) (*models.Record, error) {
	layout, err := LayoutForSide(side)
	if err != nil {
		return nil, err
	}

	recordType := layout.RecordType.Slice(line)
	if recordType != models.DetailRecordType {
		return nil, nil
	}

	amountRaw := strings.TrimSpace(layout.Amount.Slice(line))
	reference := strings.TrimSpace(layout.Reference.Slice(line))

	record := &models.Record{
		RecordType:     recordType,
		AmountRaw:      amountRaw,
		AmountInt:      parseAmount(amountRaw),
		Date1:          strings.TrimSpace(layout.Date1.Slice(line)),
		Date2:          strings.TrimSpace(layout.Date2.Slice(line)),
		Date3:          strings.TrimSpace(layout.Date3.Slice(line)),
		Reference:      reference,
		ReferenceToken: p.tokenizer.Token(reference),
		Source:         side,
	}

	return record, nil
}

// parseAmount interprets the raw amount as a non-negative integer if and
// only if every character is a decimal digit; otherwise it returns nil.
// Digit-by-digit accumulation keeps the policy total: no sign, no decimal
// point, no grouping characters ever pass.
func parseAmount(raw string) *int64 {
	if raw == "" {
		return nil
	}

	var value int64
	for _, c := range raw {
		if c < '0' || c > '9' {
			return nil
		}
		value = value*10 + int64(c-'0')
	}

	return &value
}
