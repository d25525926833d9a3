package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docset"
)

// Ensure LoggingRecordStore implements docset.RecordStore.
var _ docset.RecordStore = (*LoggingRecordStore)(nil)

// LoggingRecordStore wraps a RecordStore with debug logging.
type LoggingRecordStore struct {
	next   docset.RecordStore
	logger *slog.Logger
}

// NewLoggingRecordStore creates a new LoggingRecordStore.
func NewLoggingRecordStore(next docset.RecordStore, logger *slog.Logger) *LoggingRecordStore {
	return &LoggingRecordStore{next: next, logger: logger}
}

func (s *LoggingRecordStore) SaveRecord(ctx context.Context, record *docset.Record) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("save record",
			"slug", record.Doc.Slug,
			"entries", len(record.Index.Entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveRecord(ctx, record)
}

func (s *LoggingRecordStore) LoadRecord(ctx context.Context, slug string) (record *docset.Record, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("load record",
			"slug", slug,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadRecord(ctx, slug)
}

func (s *LoggingRecordStore) DeleteRecord(ctx context.Context, slug string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("delete record",
			"slug", slug,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteRecord(ctx, slug)
}

func (s *LoggingRecordStore) ListRecords(ctx context.Context) (slugs []string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("list records",
			"count", len(slugs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListRecords(ctx)
}

func (s *LoggingRecordStore) SaveCatalog(ctx context.Context, catalog *docset.Catalog) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("save catalog",
			"count", len(catalog.Docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveCatalog(ctx, catalog)
}

func (s *LoggingRecordStore) LoadCatalog(ctx context.Context) (catalog *docset.Catalog, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("load catalog",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadCatalog(ctx)
}
