package store

import (
	"context"
	"sync"

	"golang-recon-agent/internal/models"
)

// MemoryStore is an in-memory Store used by engine tests and dry runs.
// It mirrors the unordered-bulk-insert contract: records rejected by the
// RejectRecord hook reduce the inserted count without failing the call.
type MemoryStore struct {
	mu sync.Mutex

	records  map[models.Side][]*models.Record
	runs     []*models.RunSummary
	feedback []*models.FeedbackEntry

	indexesEnsured int

	// RejectRecord, when set, simulates a per-document insert failure for
	// any record it returns true for.
	RejectRecord func(*models.Record) bool

	// Err, when set, is returned by every storage operation to simulate
	// an unavailable store.
	Err error
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: map[models.Side][]*models.Record{
			models.SideScheme: {},
			models.SideBank:   {},
		},
	}
}

// InsertRecords appends records to the side's slice, honoring RejectRecord
func (m *MemoryStore) InsertRecords(ctx context.Context, side models.Side, records []*models.Record) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var inserted int64
	for _, record := range records {
		if m.RejectRecord != nil && m.RejectRecord(record) {
			continue
		}
		m.records[side] = append(m.records[side], record)
		inserted++
	}

	return inserted, nil
}

// FindByDate1 returns the side's records whose Date1 equals date
func (m *MemoryStore) FindByDate1(ctx context.Context, side models.Side, date string) ([]*models.Record, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Record
	for _, record := range m.records[side] {
		if record.Date1 == date {
			out = append(out, record)
		}
	}

	return out, nil
}

// EnsureIndexes records that index creation was requested
func (m *MemoryStore) EnsureIndexes(ctx context.Context) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.indexesEnsured++
	return nil
}

// PurgeRecords clears the side's records
func (m *MemoryStore) PurgeRecords(ctx context.Context, side models.Side) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := int64(len(m.records[side]))
	m.records[side] = nil
	return removed, nil
}

// InsertRun appends a run summary
func (m *MemoryStore) InsertRun(ctx context.Context, run *models.RunSummary) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.runs = append(m.runs, run)
	return nil
}

// InsertFeedback appends a feedback entry
func (m *MemoryStore) InsertFeedback(ctx context.Context, entry *models.FeedbackEntry) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.feedback = append(m.feedback, entry)
	return nil
}

// Close is a no-op for the in-memory store
func (m *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Accessors for test assertions

// Records returns a copy of the side's stored records
func (m *MemoryStore) Records(side models.Side) []*models.Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.Record, len(m.records[side]))
	copy(out, m.records[side])
	return out
}

// Runs returns the stored run summaries
func (m *MemoryStore) Runs() []*models.RunSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.RunSummary, len(m.runs))
	copy(out, m.runs)
	return out
}

// Feedback returns the stored feedback entries
func (m *MemoryStore) Feedback() []*models.FeedbackEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.FeedbackEntry, len(m.feedback))
	copy(out, m.feedback)
	return out
}

// IndexesEnsured returns how many times EnsureIndexes was called
func (m *MemoryStore) IndexesEnsured() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.indexesEnsured
}
