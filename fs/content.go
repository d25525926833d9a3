package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/fwojciec/docset"
	"github.com/google/uuid"
)

// Ensure ContentStore implements docset.ContentStore at compile time.
var _ docset.ContentStore = (*ContentStore)(nil)

// ContentStore implements docset.ContentStore with one HTML file per page.
// Pages of a set are written to a staging directory that replaces
// docs/<slug> only once every page has been written.
type ContentStore struct {
	dir      string
	rewriter docset.LinkRewriter
}

// NewContentStore creates a new ContentStore rooted at the data directory.
// If rewriter is nil, pages are written unchanged.
func NewContentStore(dir string, rewriter docset.LinkRewriter) *ContentStore {
	return &ContentStore{dir: dir, rewriter: rewriter}
}

func (s *ContentStore) finalDir(slug string) string {
	return filepath.Join(s.dir, "docs", slug)
}

// stagingDir is unique per call so that concurrent writes of the same set
// never share files.
func (s *ContentStore) stagingDir(slug string) string {
	return filepath.Join(s.dir, "docs", slug+".tmp-"+uuid.New().String())
}

// WriteContent writes all pages of a set and swaps them in for the
// previous pages.
func (s *ContentStore) WriteContent(ctx context.Context, slug string, pages map[string]string) error {
	if err := docset.ValidateSlug(slug); err != nil {
		return err
	}

	staging := s.stagingDir(slug)
	if err := s.writePages(ctx, staging, pages); err != nil {
		os.RemoveAll(staging)
		return err
	}

	if err := s.commit(staging, s.finalDir(slug)); err != nil {
		os.RemoveAll(staging)
		return docset.WrapError(docset.EIO, err, "commit content for %q", slug)
	}
	return nil
}

func (s *ContentStore) writePages(ctx context.Context, dir string, pages map[string]string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return docset.WrapError(docset.EIO, err, "create content directory")
	}

	for key, html := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := PagePath(key)
		if err != nil {
			return err
		}

		if s.rewriter != nil {
			if html, err = s.rewriter.RewriteLinks(html); err != nil {
				return docset.WrapError(docset.EPARSE, err, "rewrite links in %q", key)
			}
		}

		fullPath := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return docset.WrapError(docset.EIO, err, "create directory for %q", key)
		}
		if err := os.WriteFile(fullPath, []byte(html), 0644); err != nil {
			return docset.WrapError(docset.EIO, err, "write page %q", key)
		}
	}
	return nil
}

func (s *ContentStore) commit(staging, final string) error {
	// Remove existing final directory if present
	if err := os.RemoveAll(final); err != nil {
		return err
	}
	return os.Rename(staging, final)
}

// ReadContent returns the materialized page for key.
func (s *ContentStore) ReadContent(ctx context.Context, slug, key string) (string, error) {
	if err := docset.ValidateSlug(slug); err != nil {
		return "", err
	}

	rel, err := PagePath(key)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(s.finalDir(slug), rel))
	if errors.Is(err, os.ErrNotExist) {
		return "", docset.Errorf(docset.ENOTFOUND, "page %q not found in %q", key, slug)
	}
	if err != nil {
		return "", docset.WrapError(docset.EIO, err, "read page %q", key)
	}
	return string(data), nil
}

// DeleteContent removes docs/<slug>. Deleting a set without content is
// not an error.
func (s *ContentStore) DeleteContent(ctx context.Context, slug string) error {
	if err := docset.ValidateSlug(slug); err != nil {
		return err
	}

	if err := os.RemoveAll(s.finalDir(slug)); err != nil {
		return docset.WrapError(docset.EIO, err, "delete content for %q", slug)
	}
	return nil
}
