package mock

import (
	"context"

	"github.com/fwojciec/docset"
)

var _ docset.ContentStore = (*ContentStore)(nil)

// ContentStore is a mock implementation of docset.ContentStore.
type ContentStore struct {
	WriteContentFn  func(ctx context.Context, slug string, pages map[string]string) error
	ReadContentFn   func(ctx context.Context, slug, path string) (string, error)
	DeleteContentFn func(ctx context.Context, slug string) error
}

func (s *ContentStore) WriteContent(ctx context.Context, slug string, pages map[string]string) error {
	return s.WriteContentFn(ctx, slug, pages)
}

func (s *ContentStore) ReadContent(ctx context.Context, slug, path string) (string, error) {
	return s.ReadContentFn(ctx, slug, path)
}

func (s *ContentStore) DeleteContent(ctx context.Context, slug string) error {
	return s.DeleteContentFn(ctx, slug)
}

var _ docset.LinkRewriter = (*LinkRewriter)(nil)

// LinkRewriter is a mock implementation of docset.LinkRewriter.
type LinkRewriter struct {
	RewriteLinksFn func(html string) (string, error)
}

func (r *LinkRewriter) RewriteLinks(html string) (string, error) {
	return r.RewriteLinksFn(html)
}
