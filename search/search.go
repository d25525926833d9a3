// Package search ranks installed documentation entries against free-text
// queries.
//
// Each query takes one snapshot of the installed entries, scores the
// snapshot in parallel with one private fuzzy.Matcher per worker, and merges
// the scores into a single ranked list.
package search

import (
	"cmp"
	"context"
	"runtime"
	"slices"

	"github.com/fwojciec/docset"
	"github.com/fwojciec/docset/fuzzy"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

var _ docset.Searcher = (*Engine)(nil)

// DefaultCacheSize is the number of query results kept by default.
const DefaultCacheSize = 128

// Source provides the entries to search.
type Source interface {
	// Snapshot returns every installed entry and the generation it was
	// taken at.
	Snapshot() ([]docset.SearchableEntry, uint64)

	// Generation returns the current generation.
	Generation() uint64
}

// Matcher scores text fields against a pattern. Implementations need not be
// safe for concurrent use.
type Matcher interface {
	Score(p *fuzzy.Pattern, fields ...string) uint16
}

// Engine implements docset.Searcher over a Source.
type Engine struct {
	source     Source
	workers    int
	newMatcher func() Matcher
	cacheSize  int
	cache      *lru.Cache[cacheKey, cacheValue]
}

type cacheKey struct {
	query    string
	limit    int
	minScore uint16
}

type cacheValue struct {
	generation uint64
	results    []docset.SearchResult
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the number of scoring goroutines.
// Defaults to runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithMatcherFactory sets the constructor for per-worker matchers.
// Defaults to fuzzy.NewMatcher.
func WithMatcherFactory(fn func() Matcher) Option {
	return func(e *Engine) {
		e.newMatcher = fn
	}
}

// WithCacheSize sets how many query results are cached. Zero disables the
// cache. Defaults to DefaultCacheSize.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// NewEngine creates an Engine that searches the entries of source.
func NewEngine(source Source, opts ...Option) *Engine {
	e := &Engine{
		source:     source,
		workers:    runtime.GOMAXPROCS(0),
		newMatcher: func() Matcher { return fuzzy.NewMatcher() },
		cacheSize:  DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cacheSize > 0 {
		// lru.New only fails for a non-positive size.
		e.cache, _ = lru.New[cacheKey, cacheValue](e.cacheSize)
	}
	return e
}

// Search returns at most opts.Limit results ordered by score descending.
// Equal scores are ordered by slug, path and name. Entries scoring below
// opts.MinScore are dropped; with the default of zero, entries that do not
// match at all still fill the list when too few entries match.
//
// The context is checked before scoring starts. Scoring itself is not
// interrupted.
func (e *Engine) Search(ctx context.Context, query string, opts docset.SearchOptions) ([]docset.SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = docset.DefaultSearchLimit
	}

	key := cacheKey{query: query, limit: limit, minScore: opts.MinScore}
	if e.cache != nil {
		if v, ok := e.cache.Get(key); ok && v.generation == e.source.Generation() {
			return slices.Clone(v.results), nil
		}
	}

	entries, generation := e.source.Snapshot()
	if len(entries) == 0 {
		return []docset.SearchResult{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := e.score(fuzzy.NewPattern(query), entries)

	results := make([]docset.SearchResult, 0, min(limit, len(entries)))
	for i, entry := range entries {
		if scores[i] < opts.MinScore {
			continue
		}
		results = append(results, docset.SearchResult{Entry: entry, Score: scores[i]})
	}
	slices.SortFunc(results, compareResults)
	if len(results) > limit {
		results = slices.Clip(results[:limit])
	}

	if e.cache != nil {
		e.cache.Add(key, cacheValue{generation: generation, results: results})
		return slices.Clone(results), nil
	}
	return results, nil
}

// score scores entries on up to e.workers goroutines. Each goroutine owns a
// contiguous range of the output and builds its matcher on first use.
func (e *Engine) score(pattern *fuzzy.Pattern, entries []docset.SearchableEntry) []uint16 {
	scores := make([]uint16, len(entries))
	workers := min(e.workers, len(entries))
	chunk := (len(entries) + workers - 1) / workers

	var g errgroup.Group
	for lo := 0; lo < len(entries); lo += chunk {
		hi := min(lo+chunk, len(entries))
		g.Go(func() error {
			var m Matcher
			for i := lo; i < hi; i++ {
				if m == nil {
					m = e.newMatcher()
				}
				scores[i] = m.Score(pattern, entries[i].Name, entries[i].Type)
			}
			return nil
		})
	}
	_ = g.Wait()
	return scores
}

func compareResults(a, b docset.SearchResult) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Entry.DocSlug, b.Entry.DocSlug); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Entry.Path, b.Entry.Path); c != 0 {
		return c
	}
	return cmp.Compare(a.Entry.Name, b.Entry.Name)
}
