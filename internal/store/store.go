// Package store provides access to the document store backing the
// reconciliation agent.
//
// The engine consumes storage only through the narrow interfaces below:
// unordered bulk insert, single insert, filtered read with projection,
// delete-many and index creation. The production implementation is MongoDB
// (mongo.go); an in-memory implementation (memory.go) backs engine tests.
package store

import (
	"context"

	"golang-recon-agent/internal/models"
)

// RecordStore persists and reads parsed transaction records per side
type RecordStore interface {
	// InsertRecords performs an unordered bulk insert of records into the
	// side's collection. Individual document failures do not fail the
	// call; the returned count is the number actually inserted. An error
	// is returned only when the operation as a whole could not execute.
	InsertRecords(ctx context.Context, side models.Side, records []*models.Record) (int64, error)

	// FindByDate1 loads every record of one side whose date1 field equals
	// the given business date, projected to the fields matching needs.
	FindByDate1(ctx context.Context, side models.Side, date string) ([]*models.Record, error)

	// EnsureIndexes declares the compound reconciliation-key index on both
	// sides' collections. Safe to call repeatedly.
	EnsureIndexes(ctx context.Context) error

	// PurgeRecords deletes all records of one side, returning the number
	// removed.
	PurgeRecords(ctx context.Context, side models.Side) (int64, error)
}

// RunStore persists reconciliation run summaries, append-only
type RunStore interface {
	InsertRun(ctx context.Context, run *models.RunSummary) error
}

// FeedbackStore persists operator feedback entries, append-only
type FeedbackStore interface {
	InsertFeedback(ctx context.Context, entry *models.FeedbackEntry) error
}

// Store is the full document-store surface used by the agent
type Store interface {
	RecordStore
	RunStore
	FeedbackStore

	Close(ctx context.Context) error
}
