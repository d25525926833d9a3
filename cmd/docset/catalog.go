package main

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/fwojciec/docset"
)

// Run executes the catalog command.
func (c *CatalogCmd) Run(deps *Dependencies) error {
	var (
		docs []docset.Doc
		err  error
	)
	if c.Refresh {
		docs, err = deps.Store.RefreshCatalog(deps.Ctx)
	} else {
		docs, err = deps.Store.Catalog(deps.Ctx)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}

	filter := strings.ToLower(c.Filter)
	docs = slices.DeleteFunc(docs, func(d docset.Doc) bool {
		return filter != "" &&
			!strings.Contains(strings.ToLower(d.Slug), filter) &&
			!strings.Contains(strings.ToLower(d.Name), filter)
	})
	slices.SortFunc(docs, func(a, b docset.Doc) int { return strings.Compare(a.Slug, b.Slug) })

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documentation found")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, d := range docs {
		mark := ""
		if deps.Store.IsInstalled(d.Slug) {
			mark = "installed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Slug, displayName(&d), d.Release, mark)
	}
	return w.Flush()
}

// displayName joins a set's name and version, e.g. "React 18".
func displayName(d *docset.Doc) string {
	if d.Version == "" {
		return d.Name
	}
	return d.Name + " " + d.Version
}
