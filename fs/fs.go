// Package fs provides file-based storage for installed documentation.
//
// Layout under the data directory:
//
//	records/<slug>.bin    one binary record per installed set
//	catalog.json          catalog snapshot
//	docs/<slug>/...       materialized pages
//	.lock                 advisory lock for mutating processes
package fs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docset"
)

// PagePath converts a page key from upstream content into a relative file
// path ending in .html. A fragment is dropped, a trailing slash maps to
// index.html.
// Example: std/vec/struct.Vec#method.push → std/vec/struct.Vec.html
func PagePath(key string) (string, error) {
	p, _, _ := strings.Cut(key, "#")
	p = strings.TrimPrefix(p, "/")

	if p == "" || strings.HasSuffix(p, "/") {
		p += "index"
	}
	if !strings.HasSuffix(p, ".html") {
		p += ".html"
	}

	p = filepath.FromSlash(p)
	if !filepath.IsLocal(p) {
		return "", docset.Errorf(docset.EINVALID, "page path %q escapes the documentation directory", key)
	}
	return p, nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
