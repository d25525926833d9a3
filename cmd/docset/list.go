package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/docset"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	slugs := deps.Store.Installed()
	if len(slugs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documentation installed")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, slug := range slugs {
		doc, err := deps.Store.Metadata(slug)
		if err != nil {
			// Removed concurrently.
			continue
		}
		index, err := deps.Store.Index(slug)
		if err != nil {
			continue
		}
		cachedAt, _ := deps.Store.CachedAt(slug)
		fmt.Fprintf(w, "%s\t%s\t%d entries\t%s\n",
			slug, displayName(doc), len(index.Entries), cachedAt.UTC().Format(time.DateOnly))
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}
	return nil
}
