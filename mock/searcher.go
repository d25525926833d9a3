package mock

import (
	"context"

	"github.com/fwojciec/docset"
)

var _ docset.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of docset.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string, opts docset.SearchOptions) ([]docset.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string, opts docset.SearchOptions) ([]docset.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}
