// Package feedback persists run summaries and operator-supplied labels for
// unmatched cases, and drives the interactive labeling loop.
//
// The interactive channel is a small Prompter interface so the loop is
// testable without a terminal; the console implementation lives alongside
// it. Labels are free-form by design and never validated against a closed
// vocabulary.
package feedback

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang-recon-agent/internal/classifier"
	"golang-recon-agent/internal/models"
	"golang-recon-agent/internal/store"
	"golang-recon-agent/pkg/logger"

	"github.com/google/uuid"
)

// StopSentinel ends the labeling loop early, matched case-insensitively
const StopSentinel = "stop"

// DefaultMaxLabelCases bounds how many unmatched cases one loop offers
const DefaultMaxLabelCases = 20

// Prompter is the interactive prompt/response channel
type Prompter interface {
	// Ask shows a prompt and returns the operator's trimmed reply
	Ask(prompt string) (string, error)

	// AskYesNo shows a yes/no prompt; only an explicit "y" means yes
	AskYesNo(prompt string) (bool, error)
}

// ConsolePrompter is the terminal-backed Prompter
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsolePrompter creates a prompter over the given streams
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask implements Prompter
func (p *ConsolePrompter) Ask(prompt string) (string, error) {
	fmt.Fprintf(p.out, "%s> ", prompt)

	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// AskYesNo implements Prompter
func (p *ConsolePrompter) AskYesNo(prompt string) (bool, error) {
	answer, err := p.Ask(prompt + " (y/n)")
	if err != nil {
		return false, err
	}

	return strings.EqualFold(answer, "y"), nil
}

// Recorder persists run summaries and feedback entries. Both paths are
// append-only; timestamps are assigned here, never by callers.
type Recorder struct {
	runs     store.RunStore
	feedback store.FeedbackStore
	now      func() time.Time
	newRunID func() string
	log      logger.Logger
}

// NewRecorder creates a recorder over the given stores
func NewRecorder(runs store.RunStore, feedbackStore store.FeedbackStore) *Recorder {
	return &Recorder{
		runs:     runs,
		feedback: feedbackStore,
		now:      time.Now,
		newRunID: uuid.NewString,
		log:      logger.GetGlobalLogger().WithComponent("feedback"),
	}
}

// RecordRun persists the immutable summary of one reconciliation run
func (r *Recorder) RecordRun(ctx context.Context, date string, counts models.RunCounts, suggestions []string) (*models.RunSummary, error) {
	run := &models.RunSummary{
		RunID:       r.newRunID(),
		Date1:       date,
		RunTS:       r.now().UTC(),
		Counts:      counts,
		Suggestions: suggestions,
	}

	if err := r.runs.InsertRun(ctx, run); err != nil {
		return nil, err
	}

	r.log.WithFields(logger.Fields{
		"run_id": run.RunID,
		"date":   date,
	}).Info("run summary recorded")
	return run, nil
}

// RecordFeedback persists one operator label against an unmatched record
func (r *Recorder) RecordFeedback(ctx context.Context, date string, kind models.FeedbackKind, reference string, amount *int64, label, note string) error {
	entry := &models.FeedbackEntry{
		Date1:     date,
		Kind:      kind,
		Reference: reference,
		AmountInt: amount,
		Label:     label,
		Note:      note,
		TS:        r.now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	return r.feedback.InsertFeedback(ctx, entry)
}

// CollectFeedback runs the bounded labeling loop over bank-unmatched
// records: the operator is first asked whether to label at all, then
// offered up to maxCases records. Typing the stop sentinel ends the loop;
// an empty label skips the case. Returns how many labels were stored.
func CollectFeedback(ctx context.Context, prompter Prompter, recorder *Recorder, cls *classifier.Classifier, date string, bankOnly []*models.Record, maxCases int) (int, error) {
	if len(bankOnly) == 0 {
		return 0, nil
	}

	if maxCases <= 0 {
		maxCases = DefaultMaxLabelCases
	}

	wants, err := prompter.AskYesNo("\nDo you want to label any unmatched cases to help refine explanations?")
	if err != nil || !wants {
		return 0, err
	}

	cases := bankOnly
	if len(cases) > maxCases {
		cases = cases[:maxCases]
	}

	recorded := 0
	for _, record := range cases {
		prompt := fmt.Sprintf("\nRF=%s amount=%s reason=%s\nLabel (e.g. FEE, REVERSAL, LATE_POSTING, EXPECTED, DATA_ISSUE; '%s' to finish)",
			record.Reference, amountDisplay(record.AmountInt), cls.Classify(record), StopSentinel)

		label, err := prompter.Ask(prompt)
		if err != nil {
			return recorded, err
		}

		if strings.EqualFold(label, StopSentinel) {
			break
		}
		if label == "" {
			continue
		}

		note, err := prompter.Ask("Note (optional)")
		if err != nil {
			return recorded, err
		}

		if err := recorder.RecordFeedback(ctx, date, models.FeedbackBankUnmatched, record.Reference, record.AmountInt, label, note); err != nil {
			return recorded, err
		}
		recorded++
	}

	return recorded, nil
}

func amountDisplay(amount *int64) string {
	if amount == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *amount)
}
