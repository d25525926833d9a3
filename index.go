package docset

import (
	"context"
	"time"
)

// Entry is a named, typed, path-addressed item in a documentation set.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// EntryType describes one facet of an index. It is used for browsing and is
// not scored by search.
type EntryType struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Index is the ordered entry collection of one documentation set.
type Index struct {
	Entries []Entry     `json:"entries"`
	Types   []EntryType `json:"types"`
}

// Record is an installed documentation set: the unit persisted per slug.
type Record struct {
	Doc   Doc
	Index Index

	// CachedAt is the Unix time in seconds at which the set was installed
	// or last updated.
	CachedAt int64
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if err := r.Doc.Validate(); err != nil {
		return err
	}
	if r.CachedAt <= 0 {
		return Errorf(EINVALID, "record %q cached time required", r.Doc.Slug)
	}
	return nil
}

// CachedTime returns CachedAt as a time.Time.
func (r *Record) CachedTime() time.Time {
	return time.Unix(r.CachedAt, 0)
}

// RecordStore persists installed records and the catalog snapshot.
type RecordStore interface {
	// SaveRecord creates or replaces the record stored under its slug.
	SaveRecord(ctx context.Context, record *Record) error

	// LoadRecord reads the record stored under slug.
	// Returns ENOTFOUND if no record exists and ECACHE if it cannot be parsed.
	LoadRecord(ctx context.Context, slug string) (*Record, error)

	// DeleteRecord removes the record stored under slug.
	// Returns ENOTFOUND if no record exists.
	DeleteRecord(ctx context.Context, slug string) error

	// ListRecords returns the slugs of all stored records.
	ListRecords(ctx context.Context) ([]string, error)

	// SaveCatalog replaces the stored catalog snapshot.
	SaveCatalog(ctx context.Context, catalog *Catalog) error

	// LoadCatalog reads the stored catalog snapshot.
	// Returns ENOTFOUND if none was saved and ECACHE if it cannot be parsed.
	LoadCatalog(ctx context.Context) (*Catalog, error)
}

// ContentStore materializes the raw pages of installed documentation sets.
type ContentStore interface {
	// WriteContent replaces all pages of a set.
	WriteContent(ctx context.Context, slug string, pages map[string]string) error

	// ReadContent returns one materialized page.
	// Returns ENOTFOUND if the page does not exist.
	ReadContent(ctx context.Context, slug, path string) (string, error)

	// DeleteContent removes all pages of a set.
	DeleteContent(ctx context.Context, slug string) error
}

// LinkRewriter rewrites relative links in fetched markup so that they
// resolve against materialized pages.
type LinkRewriter interface {
	RewriteLinks(html string) (string, error)
}
