package mock

import (
	"context"

	"github.com/fwojciec/docset"
)

var _ docset.Provider = (*Provider)(nil)

// Provider is a mock implementation of docset.Provider.
type Provider struct {
	FetchCatalogFn func(ctx context.Context) ([]docset.Doc, error)
	FetchIndexFn   func(ctx context.Context, slug string) (*docset.Index, error)
	FetchContentFn func(ctx context.Context, slug string) (map[string]string, error)
}

func (p *Provider) FetchCatalog(ctx context.Context) ([]docset.Doc, error) {
	return p.FetchCatalogFn(ctx)
}

func (p *Provider) FetchIndex(ctx context.Context, slug string) (*docset.Index, error) {
	return p.FetchIndexFn(ctx, slug)
}

func (p *Provider) FetchContent(ctx context.Context, slug string) (map[string]string, error) {
	return p.FetchContentFn(ctx, slug)
}
