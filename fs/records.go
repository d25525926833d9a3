package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docset"
	"github.com/fwojciec/docset/gob"
)

// Ensure RecordStore implements docset.RecordStore at compile time.
var _ docset.RecordStore = (*RecordStore)(nil)

const (
	recordExt   = ".bin"
	catalogFile = "catalog.json"
)

// RecordStore implements docset.RecordStore with one file per record.
type RecordStore struct {
	dir string
}

// NewRecordStore creates a new RecordStore rooted at the data directory.
func NewRecordStore(dir string) *RecordStore {
	return &RecordStore{dir: dir}
}

func (s *RecordStore) recordsDir() string {
	return filepath.Join(s.dir, "records")
}

func (s *RecordStore) recordPath(slug string) string {
	return filepath.Join(s.recordsDir(), slug+recordExt)
}

func (s *RecordStore) catalogPath() string {
	return filepath.Join(s.dir, catalogFile)
}

// SaveRecord writes the record to records/<slug>.bin.
func (s *RecordStore) SaveRecord(ctx context.Context, record *docset.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	data, err := gob.MarshalRecord(record)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(s.recordPath(record.Doc.Slug), data); err != nil {
		return docset.WrapError(docset.EIO, err, "write record %q", record.Doc.Slug)
	}
	return nil
}

// LoadRecord reads records/<slug>.bin.
func (s *RecordStore) LoadRecord(ctx context.Context, slug string) (*docset.Record, error) {
	if err := docset.ValidateSlug(slug); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.recordPath(slug))
	if errors.Is(err, os.ErrNotExist) {
		return nil, docset.Errorf(docset.ENOTFOUND, "record %q not found", slug)
	}
	if err != nil {
		return nil, docset.WrapError(docset.EIO, err, "read record %q", slug)
	}

	record, err := gob.UnmarshalRecord(data)
	if err != nil {
		return nil, err
	}
	if record.Doc.Slug != slug {
		return nil, docset.Errorf(docset.ECACHE, "record file %q holds slug %q", slug, record.Doc.Slug)
	}
	return record, nil
}

// DeleteRecord removes records/<slug>.bin.
func (s *RecordStore) DeleteRecord(ctx context.Context, slug string) error {
	if err := docset.ValidateSlug(slug); err != nil {
		return err
	}

	err := os.Remove(s.recordPath(slug))
	if errors.Is(err, os.ErrNotExist) {
		return docset.Errorf(docset.ENOTFOUND, "record %q not found", slug)
	}
	if err != nil {
		return docset.WrapError(docset.EIO, err, "delete record %q", slug)
	}
	return nil
}

// ListRecords returns the slugs of all record files in name order.
func (s *RecordStore) ListRecords(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.recordsDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, docset.WrapError(docset.EIO, err, "list records")
	}

	var slugs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, recordExt) {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, recordExt))
	}
	return slugs, nil
}

// SaveCatalog writes the snapshot as indented JSON.
func (s *RecordStore) SaveCatalog(ctx context.Context, catalog *docset.Catalog) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return docset.WrapError(docset.EINTERNAL, err, "encode catalog")
	}

	if err := writeFileAtomic(s.catalogPath(), data); err != nil {
		return docset.WrapError(docset.EIO, err, "write catalog")
	}
	return nil
}

// LoadCatalog reads the snapshot written by SaveCatalog.
func (s *RecordStore) LoadCatalog(ctx context.Context) (*docset.Catalog, error) {
	data, err := os.ReadFile(s.catalogPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, docset.Errorf(docset.ENOTFOUND, "catalog not found")
	}
	if err != nil {
		return nil, docset.WrapError(docset.EIO, err, "read catalog")
	}

	var catalog docset.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, docset.WrapError(docset.ECACHE, err, "parse catalog")
	}
	return &catalog, nil
}
