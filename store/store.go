// Package store provides the documentation store: the installed sets, the
// catalog snapshot, and the operations that keep both in sync with upstream
// and with persistent storage.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/fwojciec/docset"
	"golang.org/x/sync/singleflight"
)

// DefaultBatchSize is the number of concurrent installs in one batch of
// InstallAll and UpdateAll.
const DefaultBatchSize = 5

// Store owns the installed documentation sets and the catalog snapshot.
//
// The installed map and the catalog are guarded by independent locks.
// Network and storage calls are made without holding either lock, so a slow
// fetch never blocks readers.
type Store struct {
	provider  docset.Provider
	records   docset.RecordStore
	contents  docset.ContentStore
	logger    *slog.Logger
	now       func() time.Time
	ttl       time.Duration
	batchSize int

	mu         sync.RWMutex
	installed  map[string]*docset.Record
	generation uint64

	catalogMu sync.RWMutex
	catalog   *docset.Catalog

	refresh singleflight.Group
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for warnings and progress.
// Defaults to discarding all output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithContentStore enables materialization of page content on install and
// update. Without it, content is not fetched.
func WithContentStore(contents docset.ContentStore) Option {
	return func(s *Store) {
		s.contents = contents
	}
}

// WithNow sets the clock. Defaults to time.Now.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithCatalogTTL sets how long a fetched catalog stays fresh.
// Defaults to docset.DefaultCatalogTTL.
func WithCatalogTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithBatchSize sets the number of concurrent installs per batch.
// Defaults to DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// New creates a Store with no installed sets and no catalog.
// Call Load to restore persisted state.
func New(provider docset.Provider, records docset.RecordStore, opts ...Option) *Store {
	s := &Store{
		provider:  provider,
		records:   records,
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
		ttl:       docset.DefaultCatalogTTL,
		batchSize: DefaultBatchSize,
		installed: make(map[string]*docset.Record),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores installed records and the catalog snapshot from the record
// store. Records that cannot be read are logged and skipped; a missing or
// unreadable catalog leaves the catalog unfetched.
func (s *Store) Load(ctx context.Context) error {
	slugs, err := s.records.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	now := s.now().Unix()
	loaded := make(map[string]*docset.Record, len(slugs))
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := s.records.LoadRecord(ctx, slug)
		if err != nil {
			s.logger.Warn("skipping unreadable record", "slug", slug, "err", err)
			continue
		}
		if record.CachedAt > now {
			s.logger.Warn("record cached in the future, clamping", "slug", slug, "cachedAt", record.CachedAt)
			record.CachedAt = now
		}
		loaded[slug] = record
	}

	s.mu.Lock()
	s.installed = loaded
	s.generation++
	s.mu.Unlock()

	catalog, err := s.records.LoadCatalog(ctx)
	switch {
	case err == nil:
		s.catalogMu.Lock()
		s.catalog = catalog
		s.catalogMu.Unlock()
	case docset.ErrorCode(err) != docset.ENOTFOUND:
		s.logger.Warn("ignoring unreadable catalog snapshot", "err", err)
	}

	s.logger.Info("loaded documentation", "count", len(loaded))
	return nil
}

// Catalog returns every documentation set available upstream. The cached
// snapshot is served while fresh; a stale or missing snapshot is refreshed
// synchronously. If the refresh fails the error is returned and the
// snapshot is left unchanged.
func (s *Store) Catalog(ctx context.Context) ([]docset.Doc, error) {
	catalog, err := s.currentCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(catalog.Docs), nil
}

// RefreshCatalog fetches the catalog regardless of freshness.
func (s *Store) RefreshCatalog(ctx context.Context) ([]docset.Doc, error) {
	catalog, err := s.refreshCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(catalog.Docs), nil
}

func (s *Store) currentCatalog(ctx context.Context) (*docset.Catalog, error) {
	s.catalogMu.RLock()
	catalog := s.catalog
	s.catalogMu.RUnlock()

	if catalog.Fresh(s.now(), s.ttl) {
		return catalog, nil
	}
	return s.refreshCatalog(ctx)
}

// refreshCatalog coalesces concurrent refreshes into one upstream fetch.
// The published snapshot is never mutated, only replaced.
func (s *Store) refreshCatalog(ctx context.Context) (*docset.Catalog, error) {
	v, err, _ := s.refresh.Do("catalog", func() (any, error) {
		docs, err := s.provider.FetchCatalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("refresh catalog: %w", err)
		}

		catalog := &docset.Catalog{Docs: docs, FetchedAt: s.now().Unix()}

		s.catalogMu.Lock()
		s.catalog = catalog
		s.catalogMu.Unlock()

		if err := s.records.SaveCatalog(ctx, catalog); err != nil {
			s.logger.Warn("failed to persist catalog snapshot", "err", err)
		}

		s.logger.Info("refreshed catalog", "count", len(docs))
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*docset.Catalog), nil
}

// Install fetches a documentation set and adds it to the store.
// Installing a set that is already installed logs a warning and does
// nothing. Returns ENOTFOUND if the catalog has no such set.
func (s *Store) Install(ctx context.Context, slug string) error {
	if err := docset.ValidateSlug(slug); err != nil {
		return err
	}

	if s.IsInstalled(slug) {
		s.logger.Warn("documentation already installed, skipping", "slug", slug)
		return nil
	}

	begin := s.now()
	catalog, err := s.currentCatalog(ctx)
	if err != nil {
		return fmt.Errorf("install %q: %w", slug, err)
	}
	doc, err := catalog.Find(slug)
	if err != nil {
		return err
	}

	record, err := s.stage(ctx, doc)
	if err != nil {
		return fmt.Errorf("install %q: %w", slug, err)
	}
	if err := s.records.SaveRecord(ctx, record); err != nil {
		return fmt.Errorf("install %q: %w", slug, err)
	}
	s.publish(record)

	s.logger.Info("installed documentation",
		"slug", slug,
		"entries", len(record.Index.Entries),
		"duration", s.now().Sub(begin),
	)
	return nil
}

// Update replaces an installed set with a freshly fetched copy. The new
// copy is fetched and persisted before it replaces the old one, so a failed
// update leaves the previous copy installed.
// Returns ENOTFOUND if the set is not installed or no longer published.
func (s *Store) Update(ctx context.Context, slug string) error {
	if err := docset.ValidateSlug(slug); err != nil {
		return err
	}
	if !s.IsInstalled(slug) {
		return docset.Errorf(docset.ENOTFOUND, "documentation %q is not installed", slug)
	}

	begin := s.now()
	catalog, err := s.currentCatalog(ctx)
	if err != nil {
		return fmt.Errorf("update %q: %w", slug, err)
	}
	doc, err := catalog.Find(slug)
	if err != nil {
		return err
	}

	record, err := s.stage(ctx, doc)
	if err != nil {
		return fmt.Errorf("update %q: %w", slug, err)
	}
	if err := s.records.SaveRecord(ctx, record); err != nil {
		return fmt.Errorf("update %q: %w", slug, err)
	}
	s.publish(record)

	s.logger.Info("updated documentation",
		"slug", slug,
		"entries", len(record.Index.Entries),
		"duration", s.now().Sub(begin),
	)
	return nil
}

// stage fetches everything a record needs and materializes its content.
// It does not touch the installed map.
func (s *Store) stage(ctx context.Context, doc *docset.Doc) (*docset.Record, error) {
	index, err := s.provider.FetchIndex(ctx, doc.Slug)
	if err != nil {
		return nil, err
	}
	if index == nil {
		index = &docset.Index{}
	}

	if s.contents != nil {
		pages, err := s.provider.FetchContent(ctx, doc.Slug)
		if err != nil {
			return nil, err
		}
		if err := s.contents.WriteContent(ctx, doc.Slug, pages); err != nil {
			return nil, err
		}
	}

	record := &docset.Record{
		Doc:      *doc,
		Index:    *index,
		CachedAt: s.now().Unix(),
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Store) publish(record *docset.Record) {
	s.mu.Lock()
	s.installed[record.Doc.Slug] = record
	s.generation++
	s.mu.Unlock()
}

// Remove deletes an installed set from the store, its persisted record and
// its materialized content. Returns ENOTFOUND if the set is not installed.
func (s *Store) Remove(ctx context.Context, slug string) error {
	if err := docset.ValidateSlug(slug); err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.installed[slug]; !ok {
		s.mu.Unlock()
		return docset.Errorf(docset.ENOTFOUND, "documentation %q is not installed", slug)
	}
	delete(s.installed, slug)
	s.generation++
	s.mu.Unlock()

	if err := s.records.DeleteRecord(ctx, slug); err != nil && docset.ErrorCode(err) != docset.ENOTFOUND {
		return fmt.Errorf("remove %q: %w", slug, err)
	}

	if s.contents != nil {
		if err := s.contents.DeleteContent(ctx, slug); err != nil {
			s.logger.Warn("failed to delete content", "slug", slug, "err", err)
		}
	}

	s.logger.Info("removed documentation", "slug", slug)
	return nil
}

// Installed returns the slugs of all installed sets in sorted order.
func (s *Store) Installed() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.installed))
}

// IsInstalled reports whether slug is installed.
func (s *Store) IsInstalled(slug string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.installed[slug]
	return ok
}

// Metadata returns the metadata of an installed set.
// Returns ENOTFOUND if the set is not installed.
func (s *Store) Metadata(slug string) (*docset.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.installed[slug]
	if !ok {
		return nil, docset.Errorf(docset.ENOTFOUND, "documentation %q is not installed", slug)
	}
	doc := record.Doc
	return &doc, nil
}

// Index returns a copy of the index of an installed set.
// Returns ENOTFOUND if the set is not installed.
func (s *Store) Index(slug string) (*docset.Index, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.installed[slug]
	if !ok {
		return nil, docset.Errorf(docset.ENOTFOUND, "documentation %q is not installed", slug)
	}
	return &docset.Index{
		Entries: slices.Clone(record.Index.Entries),
		Types:   slices.Clone(record.Index.Types),
	}, nil
}

// CachedAt returns when an installed set was installed or last updated.
// Returns ENOTFOUND if the set is not installed.
func (s *Store) CachedAt(slug string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.installed[slug]
	if !ok {
		return time.Time{}, docset.Errorf(docset.ENOTFOUND, "documentation %q is not installed", slug)
	}
	return record.CachedTime(), nil
}

// Snapshot flattens the entries of every installed set under a single read
// lock and returns them with the generation they were taken at.
func (s *Store) Snapshot() ([]docset.SearchableEntry, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, record := range s.installed {
		n += len(record.Index.Entries)
	}

	entries := make([]docset.SearchableEntry, 0, n)
	for slug, record := range s.installed {
		for _, e := range record.Index.Entries {
			entries = append(entries, docset.SearchableEntry{
				Entry:   e,
				DocSlug: slug,
				DocName: record.Doc.Name,
			})
		}
	}
	return entries, s.generation
}

// Generation returns a counter that changes whenever the installed sets
// change.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
