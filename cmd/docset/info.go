package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/docset"
)

// Run executes the info command.
func (c *InfoCmd) Run(deps *Dependencies) error {
	doc, err := deps.Store.Metadata(c.Slug)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}
	index, err := deps.Store.Index(c.Slug)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}
	cachedAt, err := deps.Store.CachedAt(c.Slug)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s (%s)\n", displayName(doc), doc.Slug)
	if doc.Release != "" {
		fmt.Fprintf(deps.Stdout, "Release:   %s\n", doc.Release)
	}
	if doc.Links != nil {
		if doc.Links.Home != "" {
			fmt.Fprintf(deps.Stdout, "Home:      %s\n", doc.Links.Home)
		}
		if doc.Links.Code != "" {
			fmt.Fprintf(deps.Stdout, "Code:      %s\n", doc.Links.Code)
		}
	}
	fmt.Fprintf(deps.Stdout, "Installed: %s\n", cachedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(deps.Stdout, "Entries:   %d\n", len(index.Entries))

	if len(index.Types) > 0 {
		fmt.Fprintln(deps.Stdout, "Types:")
		for _, t := range index.Types {
			fmt.Fprintf(deps.Stdout, "  %s (%d)\n", t.Name, t.Count)
		}
	}
	return nil
}
