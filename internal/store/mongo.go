package store

import (
	"context"
	"time"

	"golang-recon-agent/internal/models"
	"golang-recon-agent/pkg/errors"
	"golang-recon-agent/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used by the agent
const (
	CollectionSchemeTransactions = "scheme_transactions"
	CollectionBankTransactions   = "bank_transactions"
	CollectionRuns               = "recon_runs"
	CollectionFeedback           = "recon_feedback"
)

// reconKeyIndexName is the name of the compound reconciliation-key index
const reconKeyIndexName = "idx_recon_key"

// connectTimeout bounds the initial connect-and-ping handshake
const connectTimeout = 10 * time.Second

// MongoStore is the MongoDB-backed Store implementation
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	log    logger.Logger
}

// NewMongoStore connects to MongoDB at uri, pings the primary to verify the
// deployment is reachable, and returns a store bound to the named database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.StorageError(errors.CodeStorageUnavailable, "connect", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.StorageError(errors.CodeStorageUnavailable, "ping", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(database),
		log:    logger.GetGlobalLogger().WithComponent("store"),
	}, nil
}

// Close disconnects the underlying client
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// recordCollection maps a feed side to its collection
func (s *MongoStore) recordCollection(side models.Side) *mongo.Collection {
	if side == models.SideBank {
		return s.db.Collection(CollectionBankTransactions)
	}
	return s.db.Collection(CollectionSchemeTransactions)
}

// InsertRecords performs an unordered bulk insert into the side's
// collection. Per-document failures reduce the inserted count but do not
// fail the call; unordered semantics mean the remaining documents in the
// batch are still attempted.
func (s *MongoStore) InsertRecords(ctx context.Context, side models.Side, records []*models.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(records))
	for _, record := range records {
		writes = append(writes, mongo.NewInsertOneModel().SetDocument(record))
	}

	result, err := s.recordCollection(side).BulkWrite(ctx, writes,
		options.BulkWrite().SetOrdered(false))
	if err != nil {
		if bulkErr, ok := err.(mongo.BulkWriteException); ok {
			// Partial success: some documents were rejected, the rest
			// are committed. Report and carry on.
			s.log.WithFields(logger.Fields{
				"side":   side,
				"failed": len(bulkErr.WriteErrors),
			}).Warn("bulk insert completed with per-document failures")
			if result != nil {
				return result.InsertedCount, nil
			}
			return 0, nil
		}
		return 0, errors.StorageError(errors.CodeStorageWrite, "bulk insert", err)
	}

	return result.InsertedCount, nil
}

// FindByDate1 loads one side's records for a business date, projected to
// the reconciliation-key fields plus reference and file/line provenance.
func (s *MongoStore) FindByDate1(ctx context.Context, side models.Side, date string) ([]*models.Record, error) {
	projection := bson.D{
		{Key: "rf", Value: 1},
		{Key: "rf_token", Value: 1},
		{Key: "date1", Value: 1},
		{Key: "date2", Value: 1},
		{Key: "date3", Value: 1},
		{Key: "amount_int", Value: 1},
		{Key: "file_name", Value: 1},
		{Key: "line_no", Value: 1},
	}

	cursor, err := s.recordCollection(side).Find(ctx,
		bson.D{{Key: "date1", Value: date}},
		options.Find().SetProjection(projection))
	if err != nil {
		return nil, errors.StorageError(errors.CodeStorageRead, "find records", err)
	}
	defer cursor.Close(ctx)

	var records []*models.Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors.StorageError(errors.CodeStorageRead, "decode records", err)
	}

	for _, record := range records {
		record.Source = side
	}

	return records, nil
}

// EnsureIndexes declares the compound reconciliation-key index on both
// transaction collections. CreateOne with a fixed name is idempotent.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	keys := bson.D{
		{Key: "rf_token", Value: 1},
		{Key: "date1", Value: 1},
		{Key: "date2", Value: 1},
		{Key: "date3", Value: 1},
		{Key: "amount_int", Value: 1},
	}

	model := mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(reconKeyIndexName),
	}

	for _, side := range []models.Side{models.SideScheme, models.SideBank} {
		if _, err := s.recordCollection(side).Indexes().CreateOne(ctx, model); err != nil {
			return errors.StorageError(errors.CodeIndexCreation, string(side)+" collection", err)
		}
	}

	s.log.Info("reconciliation-key indexes ensured")
	return nil
}

// PurgeRecords deletes all records of one side
func (s *MongoStore) PurgeRecords(ctx context.Context, side models.Side) (int64, error) {
	result, err := s.recordCollection(side).DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, errors.StorageError(errors.CodeStorageWrite, "purge records", err)
	}

	return result.DeletedCount, nil
}

// InsertRun appends a run summary document
func (s *MongoStore) InsertRun(ctx context.Context, run *models.RunSummary) error {
	if _, err := s.db.Collection(CollectionRuns).InsertOne(ctx, run); err != nil {
		return errors.StorageError(errors.CodeStorageWrite, "insert run", err)
	}

	return nil
}

// InsertFeedback appends a feedback entry document
func (s *MongoStore) InsertFeedback(ctx context.Context, entry *models.FeedbackEntry) error {
	if _, err := s.db.Collection(CollectionFeedback).InsertOne(ctx, entry); err != nil {
		return errors.StorageError(errors.CodeStorageWrite, "insert feedback", err)
	}

	return nil
}
