// Package slog provides logging decorators for docset services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docset"
)

// Ensure LoggingProvider implements docset.Provider.
var _ docset.Provider = (*LoggingProvider)(nil)

// LoggingProvider wraps a Provider with request logging.
type LoggingProvider struct {
	next   docset.Provider
	logger *slog.Logger
}

// NewLoggingProvider creates a new LoggingProvider.
func NewLoggingProvider(next docset.Provider, logger *slog.Logger) *LoggingProvider {
	return &LoggingProvider{next: next, logger: logger}
}

// FetchCatalog delegates to the wrapped provider and logs the operation.
func (p *LoggingProvider) FetchCatalog(ctx context.Context) (docs []docset.Doc, err error) {
	defer func(begin time.Time) {
		p.logger.Info("fetch catalog",
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.FetchCatalog(ctx)
}

// FetchIndex delegates to the wrapped provider and logs the operation.
func (p *LoggingProvider) FetchIndex(ctx context.Context, slug string) (index *docset.Index, err error) {
	defer func(begin time.Time) {
		var entries int
		if index != nil {
			entries = len(index.Entries)
		}
		p.logger.Info("fetch index",
			"slug", slug,
			"entries", entries,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.FetchIndex(ctx, slug)
}

// FetchContent delegates to the wrapped provider and logs the operation.
func (p *LoggingProvider) FetchContent(ctx context.Context, slug string) (pages map[string]string, err error) {
	defer func(begin time.Time) {
		p.logger.Info("fetch content",
			"slug", slug,
			"pages", len(pages),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.FetchContent(ctx, slug)
}
