package docset_test

import (
	"testing"
	"time"

	"github.com/fwojciec/docset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slug  string
		valid bool
	}{
		{"rust", true},
		{"python~3.12", true},
		{"node~20_lts", true},
		{"c++", true},
		{"", false},
		{"../etc", false},
		{"a..b", false},
		{"go/net", false},
		{".hidden", false},
		{"with space", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			t.Parallel()

			err := docset.ValidateSlug(tt.slug)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, docset.EINVALID, docset.ErrorCode(err))
			}
		})
	}
}

func TestCatalog_Fresh(t *testing.T) {
	t.Parallel()

	fetched := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	catalog := &docset.Catalog{FetchedAt: fetched.Unix()}

	t.Run("fresh inside TTL", func(t *testing.T) {
		t.Parallel()

		now := fetched.Add(docset.DefaultCatalogTTL - time.Second)
		assert.True(t, catalog.Fresh(now, docset.DefaultCatalogTTL))
	})

	t.Run("stale at exactly TTL", func(t *testing.T) {
		t.Parallel()

		now := fetched.Add(docset.DefaultCatalogTTL)
		assert.False(t, catalog.Fresh(now, docset.DefaultCatalogTTL))
	})

	t.Run("nil catalog is never fresh", func(t *testing.T) {
		t.Parallel()

		var c *docset.Catalog
		assert.False(t, c.Fresh(fetched, docset.DefaultCatalogTTL))
	})
}

func TestCatalog_Find(t *testing.T) {
	t.Parallel()

	catalog := &docset.Catalog{Docs: []docset.Doc{
		{Slug: "go", Name: "Go"},
		{Slug: "rust", Name: "Rust"},
	}}

	doc, err := catalog.Find("rust")
	require.NoError(t, err)
	assert.Equal(t, "Rust", doc.Name)

	// Returned doc is a copy.
	doc.Name = "changed"
	assert.Equal(t, "Rust", catalog.Docs[1].Name)

	_, err = catalog.Find("zig")
	assert.Equal(t, docset.ENOTFOUND, docset.ErrorCode(err))
}

func TestRecord_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts complete record", func(t *testing.T) {
		t.Parallel()

		r := &docset.Record{Doc: docset.Doc{Slug: "go", Name: "Go"}, CachedAt: 1}
		assert.NoError(t, r.Validate())
	})

	t.Run("requires cached time", func(t *testing.T) {
		t.Parallel()

		r := &docset.Record{Doc: docset.Doc{Slug: "go", Name: "Go"}}
		assert.Equal(t, docset.EINVALID, docset.ErrorCode(r.Validate()))
	})

	t.Run("requires name", func(t *testing.T) {
		t.Parallel()

		r := &docset.Record{Doc: docset.Doc{Slug: "go"}, CachedAt: 1}
		assert.Equal(t, docset.EINVALID, docset.ErrorCode(r.Validate()))
	})
}
