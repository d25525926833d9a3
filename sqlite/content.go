package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fwojciec/docset"
)

// Compile-time interface verification.
var _ docset.ContentStore = (*ContentStore)(nil)

// ContentStore implements docset.ContentStore with one row per page.
// All pages of a set are replaced in a single transaction.
type ContentStore struct {
	db       *DB
	rewriter docset.LinkRewriter
}

// NewContentStore creates a new ContentStore.
// If rewriter is nil, pages are stored unchanged.
func NewContentStore(db *DB, rewriter docset.LinkRewriter) *ContentStore {
	return &ContentStore{db: db, rewriter: rewriter}
}

// pageKey normalizes a page path so that "fmt/index", "/fmt/index.html"
// and "fmt/index#Println" address the same row.
func pageKey(path string) string {
	p, _, _ := strings.Cut(path, "#")
	p = strings.TrimPrefix(p, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index"
	}
	return strings.TrimSuffix(p, ".html")
}

// WriteContent replaces all pages of a set.
func (s *ContentStore) WriteContent(ctx context.Context, slug string, pages map[string]string) error {
	if err := docset.ValidateSlug(slug); err != nil {
		return err
	}

	rows := make(map[string]string, len(pages))
	for path, html := range pages {
		if s.rewriter != nil {
			var err error
			if html, err = s.rewriter.RewriteLinks(html); err != nil {
				return docset.WrapError(docset.EPARSE, err, "rewrite links in %q", path)
			}
		}
		rows[pageKey(path)] = html
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return docset.WrapError(docset.EIO, err, "begin content write for %q", slug)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE slug = ?", slug); err != nil {
		return docset.WrapError(docset.EIO, err, "clear content for %q", slug)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO pages (slug, path, html) VALUES (?, ?, ?)")
	if err != nil {
		return docset.WrapError(docset.EIO, err, "prepare content write for %q", slug)
	}
	defer stmt.Close()

	for key, html := range rows {
		if _, err := stmt.ExecContext(ctx, slug, key, html); err != nil {
			return docset.WrapError(docset.EIO, err, "write page %q", key)
		}
	}

	if err := tx.Commit(); err != nil {
		return docset.WrapError(docset.EIO, err, "commit content for %q", slug)
	}
	return nil
}

// ReadContent returns one stored page.
func (s *ContentStore) ReadContent(ctx context.Context, slug, path string) (string, error) {
	var html string
	err := s.db.QueryRowContext(ctx,
		"SELECT html FROM pages WHERE slug = ? AND path = ?", slug, pageKey(path),
	).Scan(&html)
	if errors.Is(err, sql.ErrNoRows) {
		return "", docset.Errorf(docset.ENOTFOUND, "page %q not found in %q", path, slug)
	}
	if err != nil {
		return "", docset.WrapError(docset.EIO, err, "read page %q", path)
	}
	return html, nil
}

// DeleteContent removes all pages of a set.
func (s *ContentStore) DeleteContent(ctx context.Context, slug string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE slug = ?", slug); err != nil {
		return docset.WrapError(docset.EIO, err, "delete content for %q", slug)
	}
	return nil
}
