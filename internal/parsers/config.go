package parsers

import (
	"fmt"

	"golang-recon-agent/internal/models"
	"golang-recon-agent/pkg/errors"
)

// FieldRange is a 1-based inclusive character range in a fixed-width line,
// matching how column positions are written in the feed layout documents.
type FieldRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Validate checks that the range is well formed
func (fr FieldRange) Validate() error {
	if fr.Start < 1 {
		return fmt.Errorf("field range start must be at least 1, got %d", fr.Start)
	}

	if fr.End < fr.Start {
		return fmt.Errorf("field range end %d precedes start %d", fr.End, fr.Start)
	}

	return nil
}

// Width returns the number of characters the range covers
func (fr FieldRange) Width() int {
	return fr.End - fr.Start + 1
}

// Slice extracts the range from a line, clamped to the line's length.
// Lines shorter than the range yield a truncated or empty field rather
// than an error; short lines are a data condition, not a failure.
func (fr FieldRange) Slice(line string) string {
	if fr.Start > len(line) {
		return ""
	}

	end := fr.End
	if end > len(line) {
		end = len(line)
	}

	return line[fr.Start-1 : end]
}

// LayoutConfig describes the fixed-width layout of one feed side
type LayoutConfig struct {
	Side       models.Side `json:"side"`
	RecordType FieldRange  `json:"record_type"`
	Amount     FieldRange  `json:"amount"`
	Date1      FieldRange  `json:"date1"`
	Date2      FieldRange  `json:"date2"`
	Date3      FieldRange  `json:"date3"`
	Reference  FieldRange  `json:"reference"`
}

// Validate checks if the layout configuration is valid
func (lc *LayoutConfig) Validate() error {
	if !lc.Side.IsValid() {
		return fmt.Errorf("layout side must be scheme or bank, got '%s'", lc.Side)
	}

	ranges := map[string]FieldRange{
		"record_type": lc.RecordType,
		"amount":      lc.Amount,
		"date1":       lc.Date1,
		"date2":       lc.Date2,
		"date3":       lc.Date3,
		"reference":   lc.Reference,
	}

	for name, fr := range ranges {
		if err := fr.Validate(); err != nil {
			return fmt.Errorf("invalid %s range: %w", name, err)
		}
	}

	return nil
}

// Predefined layouts for the two supported feed sides. The record type,
// amount and date positions are common to both; only the reference field
// sits at a side-specific offset.
var (
	// SchemeLayout is the scheme feed layout
	SchemeLayout = &LayoutConfig{
		Side:       models.SideScheme,
		RecordType: FieldRange{Start: 1, End: 2},
		Amount:     FieldRange{Start: 27, End: 38},
		Date1:      FieldRange{Start: 55, End: 62},
		Date2:      FieldRange{Start: 63, End: 70},
		Date3:      FieldRange{Start: 71, End: 78},
		Reference:  FieldRange{Start: 183, End: 207},
	}

	// BankLayout is the bank feed layout
	BankLayout = &LayoutConfig{
		Side:       models.SideBank,
		RecordType: FieldRange{Start: 1, End: 2},
		Amount:     FieldRange{Start: 27, End: 38},
		Date1:      FieldRange{Start: 55, End: 62},
		Date2:      FieldRange{Start: 63, End: 70},
		Date3:      FieldRange{Start: 71, End: 78},
		Reference:  FieldRange{Start: 101, End: 125},
	}
)

// LayoutForSide returns the layout for a feed side. Any side other than
// scheme or bank is a fatal configuration error (unsupported layout).
func LayoutForSide(side models.Side) (*LayoutConfig, error) {
	switch side {
	case models.SideScheme:
		return SchemeLayout, nil
	case models.SideBank:
		return BankLayout, nil
	default:
		return nil, errors.ConfigurationError(errors.CodeUnsupportedLayout, string(side), nil)
	}
}
