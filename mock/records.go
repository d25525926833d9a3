package mock

import (
	"context"

	"github.com/fwojciec/docset"
)

var _ docset.RecordStore = (*RecordStore)(nil)

// RecordStore is a mock implementation of docset.RecordStore.
type RecordStore struct {
	SaveRecordFn   func(ctx context.Context, record *docset.Record) error
	LoadRecordFn   func(ctx context.Context, slug string) (*docset.Record, error)
	DeleteRecordFn func(ctx context.Context, slug string) error
	ListRecordsFn  func(ctx context.Context) ([]string, error)
	SaveCatalogFn  func(ctx context.Context, catalog *docset.Catalog) error
	LoadCatalogFn  func(ctx context.Context) (*docset.Catalog, error)
}

func (s *RecordStore) SaveRecord(ctx context.Context, record *docset.Record) error {
	return s.SaveRecordFn(ctx, record)
}

func (s *RecordStore) LoadRecord(ctx context.Context, slug string) (*docset.Record, error) {
	return s.LoadRecordFn(ctx, slug)
}

func (s *RecordStore) DeleteRecord(ctx context.Context, slug string) error {
	return s.DeleteRecordFn(ctx, slug)
}

func (s *RecordStore) ListRecords(ctx context.Context) ([]string, error) {
	return s.ListRecordsFn(ctx)
}

func (s *RecordStore) SaveCatalog(ctx context.Context, catalog *docset.Catalog) error {
	return s.SaveCatalogFn(ctx, catalog)
}

func (s *RecordStore) LoadCatalog(ctx context.Context) (*docset.Catalog, error) {
	return s.LoadCatalogFn(ctx)
}
