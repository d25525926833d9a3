package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/fwojciec/docset"
	"github.com/fwojciec/docset/gob"
)

// Compile-time interface verification.
var _ docset.RecordStore = (*RecordStore)(nil)

// RecordStore implements docset.RecordStore using SQLite. Records are
// stored in the same binary encoding as the file backend.
type RecordStore struct {
	db *DB
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db}
}

// SaveRecord creates or replaces the record stored under its slug.
func (s *RecordStore) SaveRecord(ctx context.Context, record *docset.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	data, err := gob.MarshalRecord(record)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (slug, data, cached_at)
		VALUES (?, ?, ?)
		ON CONFLICT (slug) DO UPDATE SET data = excluded.data, cached_at = excluded.cached_at
	`, record.Doc.Slug, data, record.CachedAt)
	if err != nil {
		return docset.WrapError(docset.EIO, err, "save record %q", record.Doc.Slug)
	}
	return nil
}

// LoadRecord reads the record stored under slug.
func (s *RecordStore) LoadRecord(ctx context.Context, slug string) (*docset.Record, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM records WHERE slug = ?", slug).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docset.Errorf(docset.ENOTFOUND, "record %q not found", slug)
	}
	if err != nil {
		return nil, docset.WrapError(docset.EIO, err, "load record %q", slug)
	}

	record, err := gob.UnmarshalRecord(data)
	if err != nil {
		return nil, err
	}
	if record.Doc.Slug != slug {
		return nil, docset.Errorf(docset.ECACHE, "record row %q holds slug %q", slug, record.Doc.Slug)
	}
	return record, nil
}

// DeleteRecord removes the record stored under slug.
func (s *RecordStore) DeleteRecord(ctx context.Context, slug string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE slug = ?", slug)
	if err != nil {
		return docset.WrapError(docset.EIO, err, "delete record %q", slug)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return docset.WrapError(docset.EIO, err, "delete record %q", slug)
	}
	if rows == 0 {
		return docset.Errorf(docset.ENOTFOUND, "record %q not found", slug)
	}
	return nil
}

// ListRecords returns the slugs of all stored records in sorted order.
func (s *RecordStore) ListRecords(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT slug FROM records ORDER BY slug")
	if err != nil {
		return nil, docset.WrapError(docset.EIO, err, "list records")
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, docset.WrapError(docset.EIO, err, "list records")
		}
		slugs = append(slugs, slug)
	}
	if err := rows.Err(); err != nil {
		return nil, docset.WrapError(docset.EIO, err, "list records")
	}
	return slugs, nil
}

// SaveCatalog replaces the stored catalog snapshot.
func (s *RecordStore) SaveCatalog(ctx context.Context, catalog *docset.Catalog) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return docset.WrapError(docset.EINTERNAL, err, "encode catalog")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO catalog (id, data, fetched_at)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, fetched_at = excluded.fetched_at
	`, string(data), catalog.FetchedAt)
	if err != nil {
		return docset.WrapError(docset.EIO, err, "save catalog")
	}
	return nil
}

// LoadCatalog reads the stored catalog snapshot.
func (s *RecordStore) LoadCatalog(ctx context.Context) (*docset.Catalog, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM catalog WHERE id = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docset.Errorf(docset.ENOTFOUND, "catalog not found")
	}
	if err != nil {
		return nil, docset.WrapError(docset.EIO, err, "load catalog")
	}

	var catalog docset.Catalog
	if err := json.Unmarshal([]byte(data), &catalog); err != nil {
		return nil, docset.WrapError(docset.ECACHE, err, "parse catalog")
	}
	return &catalog, nil
}
