// Package goquery rewrites links in fetched documentation pages using
// goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docset"
)

var _ docset.LinkRewriter = (*LinkRewriter)(nil)

// LinkRewriter points relative links at materialized .html pages.
//
// A relative href gets an .html suffix on its path unless it already has
// one; its query and fragment are kept. Absolute URLs, scheme links such as
// mailto: and fragment-only links are left unchanged.
type LinkRewriter struct{}

// NewLinkRewriter creates a new LinkRewriter.
func NewLinkRewriter() *LinkRewriter {
	return &LinkRewriter{}
}

// RewriteLinks returns html with relative links rewritten. The input is
// parsed as a fragment and the body content is returned.
func (r *LinkRewriter) RewriteLinks(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", docset.Errorf(docset.EPARSE, "failed to parse HTML: %v", err)
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if rewritten, ok := rewriteHref(href); ok {
			sel.SetAttr("href", rewritten)
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", docset.Errorf(docset.EPARSE, "failed to render HTML: %v", err)
	}
	return out, nil
}

// rewriteHref returns the rewritten href and whether it changed.
func rewriteHref(href string) (string, bool) {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return href, false
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return href, false
	}

	path, rest := trimmed, ""
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		path, rest = trimmed[:i], trimmed[i:]
	}
	switch {
	case path == "":
		return href, false
	case strings.HasSuffix(path, ".html"):
		return href, false
	case strings.HasSuffix(path, "/"):
		path += "index.html"
	default:
		path += ".html"
	}
	return path + rest, true
}
