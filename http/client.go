// Package http provides an HTTP implementation of docset.Provider that reads
// the DevDocs catalog, indexes and content databases.
package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/docset"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the timeout for each upstream request.
	DefaultTimeout = 30 * time.Second

	// DefaultCatalogURL lists every published documentation set.
	DefaultCatalogURL = "https://devdocs.io/docs.json"

	// DefaultDocumentsURL is the base URL of per-set index and content files.
	DefaultDocumentsURL = "https://documents.devdocs.io"

	// DefaultUserAgent identifies the client to upstream.
	DefaultUserAgent = "docset/1.0"

	// DefaultRate is the default number of upstream requests per second.
	DefaultRate = 10

	// DefaultBurst is the default number of requests allowed at once.
	DefaultBurst = 5
)

// DefaultRetryDelays returns the backoff delays for retried requests: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

var _ docset.Provider = (*Client)(nil)

// Client fetches documentation data from upstream over HTTP.
// All requests share one rate limiter.
type Client struct {
	client       *http.Client
	timeout      time.Duration
	catalogURL   string
	documentsURL string
	userAgent    string
	limiter      *rate.Limiter
	retryDelays  []time.Duration
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithCatalogURL overrides the catalog location.
func WithCatalogURL(url string) Option {
	return func(c *Client) {
		c.catalogURL = url
	}
}

// WithDocumentsURL overrides the base URL of index and content files.
func WithDocumentsURL(url string) Option {
	return func(c *Client) {
		c.documentsURL = url
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRateLimit limits upstream requests to rps per second with the given
// burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithRetryDelays retries requests that fail with a network error, waiting
// the given delays between attempts. No retries are made by default.
func WithRetryDelays(delays ...time.Duration) Option {
	return func(c *Client) {
		c.retryDelays = delays
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new upstream Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout:      DefaultTimeout,
		catalogURL:   DefaultCatalogURL,
		documentsURL: DefaultDocumentsURL,
		userAgent:    DefaultUserAgent,
		limiter:      rate.NewLimiter(DefaultRate, DefaultBurst),
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{
		Timeout: c.timeout,
	}

	return c
}

// FetchCatalog returns every documentation set published upstream.
func (c *Client) FetchCatalog(ctx context.Context) ([]docset.Doc, error) {
	var docs []docset.Doc
	if err := c.getJSON(ctx, c.catalogURL, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// FetchIndex returns the entry index of one documentation set.
func (c *Client) FetchIndex(ctx context.Context, slug string) (*docset.Index, error) {
	if err := docset.ValidateSlug(slug); err != nil {
		return nil, err
	}

	var index docset.Index
	if err := c.getJSON(ctx, c.documentsURL+"/"+slug+"/index.json", &index); err != nil {
		return nil, err
	}
	return &index, nil
}

// FetchContent returns the raw page bodies of one documentation set keyed
// by page path.
func (c *Client) FetchContent(ctx context.Context, slug string) (map[string]string, error) {
	if err := docset.ValidateSlug(slug); err != nil {
		return nil, err
	}

	var pages map[string]string
	if err := c.getJSON(ctx, c.documentsURL+"/"+slug+"/db.json", &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// getJSON fetches url and decodes its body into v, retrying network errors
// with the configured delays.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	var lastErr error
	for attempt := 0; attempt <= len(c.retryDelays); attempt++ {
		body, err := c.get(ctx, url)
		if err == nil {
			if err := json.Unmarshal(body, v); err != nil {
				return docset.WrapError(docset.EPARSE, err, "decode %s", url)
			}
			return nil
		}
		lastErr = err

		if docset.ErrorCode(err) != docset.ENETWORK || attempt == len(c.retryDelays) {
			break
		}

		c.logger.Warn("retrying request", "url", url, "attempt", attempt+2, "err", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelays[attempt]):
		}
	}
	return lastErr
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, docset.WrapError(docset.EINVALID, err, "build request for %s", url)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, docset.WrapError(docset.ENETWORK, err, "fetch %s", url)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, docset.Errorf(docset.ENOTFOUND, "not found: %s", url)
	case resp.StatusCode != http.StatusOK:
		return nil, docset.Errorf(docset.ENETWORK, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, docset.WrapError(docset.ENETWORK, err, "read %s", url)
	}
	return body, nil
}

