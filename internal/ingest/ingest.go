// Package ingest reads fixed-width feed files and loads their detail
// records into per-side storage.
//
// The pipeline privileges ingesting everything parseable over failing the
// whole run: non-detail lines are skipped silently, malformed amounts pass
// through as null-amount records, and per-document insert failures only
// reduce the inserted counter. Line numbers and file names are preserved
// on every record for audit traceability.
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang-recon-agent/internal/models"
	"golang-recon-agent/internal/parsers"
	"golang-recon-agent/internal/store"
	"golang-recon-agent/pkg/errors"
	"golang-recon-agent/pkg/logger"
)

// DefaultBatchSize is the number of records buffered per bulk insert.
// Large enough to amortize write round-trips on real feed volumes.
const DefaultBatchSize = 5000

// maxLineBytes caps the scanner buffer; feed lines are a few hundred
// characters, so 1 MiB leaves ample headroom.
const maxLineBytes = 1024 * 1024

// Config holds configuration for the ingestion pipeline
type Config struct {
	BatchSize int `json:"batch_size"`
}

// DefaultConfig returns a pipeline configuration with standard defaults
func DefaultConfig() *Config {
	return &Config{
		BatchSize: DefaultBatchSize,
	}
}

// Validate checks if the pipeline configuration is valid
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}

	return nil
}

// Counters summarizes one ingestion pass. RecordsParsed and
// RecordsInserted diverge when some documents were rejected during bulk
// writes; the difference is reported, not fatal.
type Counters struct {
	LinesScanned    int   `json:"lines_scanned"`
	RecordsParsed   int   `json:"records_parsed"`
	RecordsInserted int64 `json:"records_inserted"`
}

// PartialFailures returns how many parsed records were not inserted
func (c Counters) PartialFailures() int64 {
	return int64(c.RecordsParsed) - c.RecordsInserted
}

// Pipeline ingests feed files into the record store
type Pipeline struct {
	parser *parsers.Parser
	store  store.RecordStore
	config *Config
	log    logger.Logger
}

// NewPipeline creates an ingestion pipeline
func NewPipeline(parser *parsers.Parser, recordStore store.RecordStore, config *Config) (*Pipeline, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ingestion configuration: %w", err)
	}

	return &Pipeline{
		parser: parser,
		store:  recordStore,
		config: config,
		log:    logger.GetGlobalLogger().WithComponent("ingest"),
	}, nil
}

// IngestFile reads the feed file line by line, parses detail records,
// attaches provenance and writes them to storage in unordered batches.
func (p *Pipeline) IngestFile(ctx context.Context, path string, side models.Side) (Counters, error) {
	var counters Counters

	// Fail fast on an unsupported side before touching the file
	if _, err := parsers.LayoutForSide(side); err != nil {
		return counters, err
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return counters, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return counters, errors.FileError(errors.CodeFilePermission, path, err)
		}
		return counters, errors.FileError(errors.CodeFileRead, path, err)
	}
	defer file.Close()

	fileName := filepath.Base(path)
	batch := make([]*models.Record, 0, p.config.BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		inserted, err := p.store.InsertRecords(ctx, side, batch)
		if err != nil {
			return err
		}

		counters.RecordsInserted += inserted
		p.log.WithFields(logger.Fields{
			"side":     side,
			"file":     fileName,
			"batch":    len(batch),
			"inserted": inserted,
		}).Debug("batch written")

		batch = batch[:0]
		return nil
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		counters.LinesScanned++

		record, err := p.parser.ParseLine(scanner.Text(), side)
		if err != nil {
			return counters, err
		}
		if record == nil {
			continue
		}

		record.FileName = fileName
		record.LineNo = counters.LinesScanned
		record.Raw = scanner.Text()
		counters.RecordsParsed++

		batch = append(batch, record)
		if len(batch) >= p.config.BatchSize {
			if err := flush(); err != nil {
				return counters, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return counters, errors.FileError(errors.CodeFileRead, path, err)
	}

	if err := flush(); err != nil {
		return counters, err
	}

	entry := p.log.WithFields(logger.Fields{
		"side":     side,
		"file":     fileName,
		"lines":    counters.LinesScanned,
		"parsed":   counters.RecordsParsed,
		"inserted": counters.RecordsInserted,
	})
	if failures := counters.PartialFailures(); failures > 0 {
		entry.WithField("partial_failures", failures).Warn("ingestion finished with partial failures")
	} else {
		entry.Info("ingestion finished")
	}

	return counters, nil
}

// EnsureIndexes declares the reconciliation-key index on both sides'
// collections so date-filtered matching reads stay efficient.
func (p *Pipeline) EnsureIndexes(ctx context.Context) error {
	return p.store.EnsureIndexes(ctx)
}
