package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/docset"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	if c.Limit <= 0 {
		err := docset.Errorf(docset.EINVALID, "limit must be positive")
		fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}

	results, err := deps.Searcher.Search(deps.Ctx, c.Query, docset.SearchOptions{
		Limit:    c.Limit,
		MinScore: c.MinScore,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			r.Score, r.Entry.DocSlug, r.Entry.Name, r.Entry.Type, r.Entry.Path)
	}
	return w.Flush()
}
