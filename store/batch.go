package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BatchResult summarizes a multi-set operation.
type BatchResult struct {
	// Succeeded lists the slugs that completed, sorted.
	Succeeded []string

	// Failed maps each failed slug to its error.
	Failed map[string]error
}

// InstallAll installs every catalog set that is not installed yet, in
// batches of concurrent installs. A failure is logged and recorded in the
// result without aborting the remaining installs.
func (s *Store) InstallAll(ctx context.Context) (*BatchResult, error) {
	catalog, err := s.currentCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("install all: %w", err)
	}

	s.mu.RLock()
	var pending []string
	for _, doc := range catalog.Docs {
		if _, ok := s.installed[doc.Slug]; !ok {
			pending = append(pending, doc.Slug)
		}
	}
	s.mu.RUnlock()

	s.logger.Info("installing documentation", "count", len(pending))
	return s.runBatches(ctx, pending, s.Install, "install")
}

// UpdateAll updates every installed set, in batches like InstallAll.
func (s *Store) UpdateAll(ctx context.Context) (*BatchResult, error) {
	slugs := s.Installed()
	s.logger.Info("updating documentation", "count", len(slugs))
	return s.runBatches(ctx, slugs, s.Update, "update")
}

func (s *Store) runBatches(ctx context.Context, slugs []string, op func(context.Context, string) error, verb string) (*BatchResult, error) {
	result := &BatchResult{Failed: make(map[string]error)}
	var mu sync.Mutex

	for batch := range slices.Chunk(slugs, s.batchSize) {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var g errgroup.Group
		for _, slug := range batch {
			g.Go(func() error {
				err := op(ctx, slug)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					s.logger.Warn("failed to "+verb+" documentation", "slug", slug, "err", err)
					result.Failed[slug] = err
					return nil
				}
				result.Succeeded = append(result.Succeeded, slug)
				return nil
			})
		}
		_ = g.Wait()
	}

	slices.Sort(result.Succeeded)
	s.logger.Info("batch complete", "op", verb, "succeeded", len(result.Succeeded), "failed", len(result.Failed))
	return result, nil
}
