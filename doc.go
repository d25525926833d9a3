package docset

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// DefaultCatalogTTL is how long a fetched catalog is served before a read
// triggers a refresh.
const DefaultCatalogTTL = 7 * 24 * time.Hour

// Doc describes one documentation set as published upstream.
// JSON tags follow the upstream docs.json format.
type Doc struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Version     string `json:"version,omitempty"`
	Release     string `json:"release,omitempty"`
	Links       *Links `json:"links,omitempty"`
	Mtime       int64  `json:"mtime"`
	DBSize      int    `json:"db_size"`
	Attribution string `json:"attribution,omitempty"`
	Alias       string `json:"alias,omitempty"`
}

// Links holds the optional home and source links of a documentation set.
type Links struct {
	Home string `json:"home,omitempty"`
	Code string `json:"code,omitempty"`
}

// Validate returns an error if the doc contains invalid fields.
func (d *Doc) Validate() error {
	if err := ValidateSlug(d.Slug); err != nil {
		return err
	}
	if d.Name == "" {
		return Errorf(EINVALID, "doc %q name required", d.Slug)
	}
	return nil
}

// Catalog is the last known list of documentation sets available upstream,
// independent of what is installed.
type Catalog struct {
	Docs []Doc `json:"docs"`

	// FetchedAt is the Unix time in seconds at which Docs was fetched.
	FetchedAt int64 `json:"fetchedAt"`
}

// Fresh reports whether the catalog is younger than ttl at now.
func (c *Catalog) Fresh(now time.Time, ttl time.Duration) bool {
	if c == nil {
		return false
	}
	age := now.Unix() - c.FetchedAt
	return age < int64(ttl/time.Second)
}

// Find returns the doc with the given slug.
// Returns ENOTFOUND if the catalog has no such doc.
func (c *Catalog) Find(slug string) (*Doc, error) {
	if c != nil {
		for i := range c.Docs {
			if c.Docs[i].Slug == slug {
				doc := c.Docs[i]
				return &doc, nil
			}
		}
	}
	return nil, Errorf(ENOTFOUND, "documentation %q not found", slug)
}

var slugRe = regexp.MustCompile(`^[A-Za-z0-9][\w.~+-]*$`)

// ValidateSlug returns EINVALID if slug cannot be used as a map key and
// file name.
func ValidateSlug(slug string) error {
	if slug == "" {
		return Errorf(EINVALID, "slug required")
	}
	if len(slug) > 128 || !slugRe.MatchString(slug) || strings.Contains(slug, "..") {
		return Errorf(EINVALID, "invalid slug %q", slug)
	}
	return nil
}

// Provider fetches catalog, index and content data from upstream.
type Provider interface {
	// FetchCatalog returns every documentation set published upstream.
	FetchCatalog(ctx context.Context) ([]Doc, error)

	// FetchIndex returns the entry index of one documentation set.
	// Returns ENOTFOUND if the set does not exist upstream.
	FetchIndex(ctx context.Context, slug string) (*Index, error)

	// FetchContent returns raw page bodies keyed by relative path.
	// Returns ENOTFOUND if the set does not exist upstream.
	FetchContent(ctx context.Context, slug string) (map[string]string, error)
}
