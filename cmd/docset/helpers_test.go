package main_test

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/docset"
	main "github.com/fwojciec/docset/cmd/docset"
	"github.com/fwojciec/docset/mock"
	"github.com/fwojciec/docset/store"
	"github.com/stretchr/testify/require"
)

var installedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func record(slug, name string, entries ...docset.Entry) *docset.Record {
	return &docset.Record{
		Doc:      docset.Doc{Slug: slug, Name: name, Type: "simple"},
		Index:    docset.Index{Entries: entries},
		CachedAt: installedAt.Unix(),
	}
}

// newRecords returns a map-backed record store holding installed.
func newRecords(installed ...*docset.Record) *mock.RecordStore {
	var mu sync.Mutex
	saved := make(map[string]*docset.Record)
	for _, r := range installed {
		saved[r.Doc.Slug] = r
	}

	return &mock.RecordStore{
		SaveRecordFn: func(_ context.Context, r *docset.Record) error {
			mu.Lock()
			defer mu.Unlock()
			saved[r.Doc.Slug] = r
			return nil
		},
		LoadRecordFn: func(_ context.Context, slug string) (*docset.Record, error) {
			mu.Lock()
			defer mu.Unlock()
			r, ok := saved[slug]
			if !ok {
				return nil, docset.Errorf(docset.ENOTFOUND, "record %q not found", slug)
			}
			return r, nil
		},
		DeleteRecordFn: func(_ context.Context, slug string) error {
			mu.Lock()
			defer mu.Unlock()
			delete(saved, slug)
			return nil
		},
		ListRecordsFn: func(_ context.Context) ([]string, error) {
			mu.Lock()
			defer mu.Unlock()
			return slices.Sorted(maps.Keys(saved)), nil
		},
		SaveCatalogFn: func(_ context.Context, _ *docset.Catalog) error { return nil },
		LoadCatalogFn: func(_ context.Context) (*docset.Catalog, error) {
			return nil, docset.Errorf(docset.ENOTFOUND, "catalog not found")
		},
	}
}

// upstream serves a fixed catalog. Index fetches for slugs in fail return
// a network error.
type upstream struct {
	docs         []docset.Doc
	fail         map[string]bool
	catalogCalls atomic.Int32
}

func (u *upstream) mock() *mock.Provider {
	return &mock.Provider{
		FetchCatalogFn: func(_ context.Context) ([]docset.Doc, error) {
			u.catalogCalls.Add(1)
			return slices.Clone(u.docs), nil
		},
		FetchIndexFn: func(_ context.Context, slug string) (*docset.Index, error) {
			if u.fail[slug] {
				return nil, docset.Errorf(docset.ENETWORK, "HTTP 503 for %s", slug)
			}
			return &docset.Index{
				Entries: []docset.Entry{{Name: slug + ".Widget", Path: "widget", Type: "Classes"}},
				Types:   []docset.EntryType{{Name: "Classes", Slug: "classes", Count: 1}},
			}, nil
		},
		FetchContentFn: func(_ context.Context, _ string) (map[string]string, error) {
			return map[string]string{}, nil
		},
	}
}

func newStore(t *testing.T, u *upstream, records *mock.RecordStore) *store.Store {
	t.Helper()
	return newStoreWith(t, u.mock(), records)
}

func newStoreWith(t *testing.T, provider docset.Provider, records *mock.RecordStore) *store.Store {
	t.Helper()
	st := store.New(provider, records)
	require.NoError(t, st.Load(context.Background()))
	return st
}

func indexOf(s, substr string) int {
	return strings.Index(s, substr)
}

func newDeps(st *store.Store) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Store:  st,
	}, stdout, stderr
}
