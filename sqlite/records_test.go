package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fwojciec/docset"
	"github.com/fwojciec/docset/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(slug string) *docset.Record {
	return &docset.Record{
		Doc: docset.Doc{Slug: slug, Name: slug + " docs", Type: "simple", Release: "1.0"},
		Index: docset.Index{
			Entries: []docset.Entry{{Name: "Widget", Path: "api/widget", Type: "class"}},
			Types:   []docset.EntryType{{Slug: "class", Name: "Classes", Count: 1}},
		},
		CachedAt: 1700000000,
	}
}

func TestRecordStore_SaveRecord(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a record", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewRecordStore(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.SaveRecord(ctx, testRecord("examplelib")))

		got, err := store.LoadRecord(ctx, "examplelib")
		require.NoError(t, err)
		assert.Equal(t, testRecord("examplelib"), got)
	})

	t.Run("replaces an existing record", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewRecordStore(db)
		ctx := context.Background()
		require.NoError(t, store.SaveRecord(ctx, testRecord("go")))

		updated := testRecord("go")
		updated.CachedAt = 1800000000
		updated.Index.Entries = append(updated.Index.Entries, docset.Entry{Name: "Gadget", Path: "api/gadget", Type: "class"})
		require.NoError(t, store.SaveRecord(ctx, updated))

		got, err := store.LoadRecord(ctx, "go")
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		var cachedAt int64
		require.NoError(t, db.QueryRowContext(ctx, "SELECT cached_at FROM records WHERE slug = 'go'").Scan(&cachedAt))
		assert.Equal(t, int64(1800000000), cachedAt)
	})

	t.Run("rejects an invalid record", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewRecordStore(setupTestDB(t))

		err := store.SaveRecord(context.Background(), &docset.Record{Doc: docset.Doc{Slug: "go"}})
		assert.Equal(t, docset.EINVALID, docset.ErrorCode(err))
	})
}

func TestRecordStore_LoadRecord(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for missing record", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewRecordStore(setupTestDB(t))

		_, err := store.LoadRecord(context.Background(), "missing")
		assert.Equal(t, docset.ENOTFOUND, docset.ErrorCode(err))
	})

	t.Run("returns ECACHE for corrupt blob", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		_, err := db.ExecContext(ctx, "INSERT INTO records (slug, data, cached_at) VALUES ('bad', x'deadbeef', 1)")
		require.NoError(t, err)
		store := sqlite.NewRecordStore(db)

		_, err = store.LoadRecord(ctx, "bad")
		assert.Equal(t, docset.ECACHE, docset.ErrorCode(err))
	})
}

func TestRecordStore_DeleteRecord(t *testing.T) {
	t.Parallel()

	t.Run("removes the record", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewRecordStore(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, store.SaveRecord(ctx, testRecord("go")))

		require.NoError(t, store.DeleteRecord(ctx, "go"))

		_, err := store.LoadRecord(ctx, "go")
		assert.Equal(t, docset.ENOTFOUND, docset.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for missing record", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewRecordStore(setupTestDB(t))

		err := store.DeleteRecord(context.Background(), "go")
		assert.Equal(t, docset.ENOTFOUND, docset.ErrorCode(err))
	})
}

func TestRecordStore_ListRecords(t *testing.T) {
	t.Parallel()

	t.Run("returns nothing before first save", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewRecordStore(setupTestDB(t))

		slugs, err := store.ListRecords(context.Background())
		require.NoError(t, err)
		assert.Empty(t, slugs)
	})

	t.Run("lists slugs in order", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewRecordStore(setupTestDB(t))
		ctx := context.Background()
		for _, slug := range []string{"rust", "go", "css"} {
			require.NoError(t, store.SaveRecord(ctx, testRecord(slug)))
		}

		slugs, err := store.ListRecords(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"css", "go", "rust"}, slugs)
	})
}

func TestRecordStore_Catalog(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND before first save", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewRecordStore(setupTestDB(t))

		_, err := store.LoadCatalog(context.Background())
		assert.Equal(t, docset.ENOTFOUND, docset.ErrorCode(err))
	})

	t.Run("keeps a single snapshot", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewRecordStore(db)
		ctx := context.Background()

		for i := range 3 {
			catalog := &docset.Catalog{
				Docs:      []docset.Doc{{Slug: "go", Name: fmt.Sprintf("Go %d", i)}},
				FetchedAt: int64(1700000000 + i),
			}
			require.NoError(t, store.SaveCatalog(ctx, catalog))
		}

		got, err := store.LoadCatalog(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Go 2", got.Docs[0].Name)
		assert.Equal(t, int64(1700000002), got.FetchedAt)

		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog").Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("returns ECACHE for corrupt snapshot", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		_, err := db.ExecContext(ctx, "INSERT INTO catalog (id, data, fetched_at) VALUES (1, '{not json', 1)")
		require.NoError(t, err)
		store := sqlite.NewRecordStore(db)

		_, err = store.LoadCatalog(ctx)
		assert.Equal(t, docset.ECACHE, docset.ErrorCode(err))
	})
}

func BenchmarkRecordStore_SaveRecord(b *testing.B) {
	db := sqlite.NewDB(b.TempDir() + "/bench.db")
	require.NoError(b, db.Open())
	defer db.Close()
	store := sqlite.NewRecordStore(db)
	ctx := context.Background()

	record := testRecord("bench")
	for i := range 2000 {
		record.Index.Entries = append(record.Index.Entries, docset.Entry{
			Name: fmt.Sprintf("Entry%d", i), Path: fmt.Sprintf("p/%d", i), Type: "func",
		})
	}

	for b.Loop() {
		if err := store.SaveRecord(ctx, record); err != nil {
			b.Fatal(err)
		}
	}
}
