package docset

import "context"

// DefaultSearchLimit is the number of results returned when
// SearchOptions.Limit is not set.
const DefaultSearchLimit = 50

// SearchableEntry is an entry tagged with its owning documentation set.
type SearchableEntry struct {
	Entry
	DocSlug string `json:"docSlug"`
	DocName string `json:"docName"`
}

// SearchResult represents a scored entry. Higher scores are better matches;
// 0 means no match.
type SearchResult struct {
	Entry SearchableEntry `json:"entry"`
	Score uint16          `json:"score"`
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// Maximum number of results to return. Defaults to DefaultSearchLimit.
	Limit int `json:"limit,omitempty"`

	// Minimum score a result must reach. The zero value keeps entries
	// that did not match at all when fewer than Limit entries did.
	MinScore uint16 `json:"minScore,omitempty"`
}

// Searcher ranks installed entries against a free-text query.
type Searcher interface {
	// Search returns results ordered by score descending.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}
