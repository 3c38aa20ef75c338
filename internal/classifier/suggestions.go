package classifier

// Advisory texts, one per reason code. Wording is aimed at reconciliation
// operators deciding what to adjust before the next run.
const (
	suggestionDateWindow = "Many bank records have no scheme match for date1. " +
		"Consider trying reconciliation on date2 or date3, or widening the date window (T+1/T+2)."

	suggestionReferenceExtraction = "Some bank records do not carry the reference in the expected field. " +
		"Consider extracting it from another position or linking via an alternate ID as a fallback."

	suggestionAmountParsing = "Some amounts are missing or non-numeric. " +
		"Confirm the amount slice positions and implied decimals, or parse the amount as signed/packed if applicable."

	suggestionNothingDetected = "No obvious improvements detected from current heuristics."
)

// suggestionOrder fixes the advisory priority; ordering never follows
// tally magnitude.
var suggestionOrder = []struct {
	reason ReasonCode
	text   string
}{
	{ReasonNotInScheme, suggestionDateWindow},
	{ReasonReferenceFormat, suggestionReferenceExtraction},
	{ReasonAmountMissing, suggestionAmountParsing},
}

// Suggest turns a reason-code tally into an ordered list of advisory
// strings: one fixed advisory per reason present with a positive count,
// or the single "nothing detected" advisory when none are.
func Suggest(tally map[ReasonCode]int) []string {
	var suggestions []string
	for _, entry := range suggestionOrder {
		if tally[entry.reason] > 0 {
			suggestions = append(suggestions, entry.text)
		}
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, suggestionNothingDetected)
	}

	return suggestions
}
