package goquery_test

import (
	"testing"

	"github.com/fwojciec/docset/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkRewriter_RewriteLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		href string
		want string
	}{
		{name: "adds extension to relative path", href: "fmt/index", want: "fmt/index.html"},
		{name: "keeps fragment", href: "fmt/index#Println", want: "fmt/index.html#Println"},
		{name: "keeps query", href: "search?q=x", want: "search.html?q=x"},
		{name: "walks up directories", href: "../io/index", want: "../io/index.html"},
		{name: "directory link gets index page", href: "net/", want: "net/index.html"},
		{name: "existing extension is kept", href: "guide.html#top", want: "guide.html#top"},
		{name: "dotted name gets extension appended", href: "std/vec/struct.Vec", want: "std/vec/struct.Vec.html"},
		{name: "https is left alone", href: "https://go.dev/doc", want: "https://go.dev/doc"},
		{name: "http is left alone", href: "http://example.com/a", want: "http://example.com/a"},
		{name: "protocol-relative is left alone", href: "//cdn.example.com/x", want: "//cdn.example.com/x"},
		{name: "mailto is left alone", href: "mailto:dev@example.com", want: "mailto:dev@example.com"},
		{name: "fragment-only is left alone", href: "#section", want: "#section"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := goquery.NewLinkRewriter()
			got, err := r.RewriteLinks(`<p><a href="` + tt.href + `">link</a></p>`)

			require.NoError(t, err)
			assert.Equal(t, `<p><a href="`+tt.want+`">link</a></p>`, got)
		})
	}
}

func TestLinkRewriter_RewriteLinks_Document(t *testing.T) {
	t.Parallel()

	t.Run("rewrites every anchor and keeps other markup", func(t *testing.T) {
		t.Parallel()

		html := `<h1>fmt</h1><p>See <a href="io/index">io</a> and <a href="https://pkg.go.dev">pkg</a>.</p><pre>x := 1</pre>`

		got, err := goquery.NewLinkRewriter().RewriteLinks(html)

		require.NoError(t, err)
		assert.Contains(t, got, `<h1>fmt</h1>`)
		assert.Contains(t, got, `<a href="io/index.html">io</a>`)
		assert.Contains(t, got, `<a href="https://pkg.go.dev">pkg</a>`)
		assert.Contains(t, got, `<pre>x := 1</pre>`)
	})

	t.Run("ignores anchors without href", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewLinkRewriter().RewriteLinks(`<a name="top">top</a>`)

		require.NoError(t, err)
		assert.Equal(t, `<a name="top">top</a>`, got)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewLinkRewriter().RewriteLinks("")

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
