package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docset"
)

// Ensure LoggingSearcher implements docset.Searcher.
var _ docset.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with query logging.
type LoggingSearcher struct {
	next   docset.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next docset.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the query.
func (s *LoggingSearcher) Search(ctx context.Context, query string, opts docset.SearchOptions) (results []docset.SearchResult, err error) {
	defer func(begin time.Time) {
		var top uint16
		if len(results) > 0 {
			top = results[0].Score
		}
		s.logger.Info("search",
			"query", query,
			"limit", opts.Limit,
			"count", len(results),
			"top", top,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, opts)
}
