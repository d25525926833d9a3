package main

import (
	"fmt"
	"slices"

	"github.com/fwojciec/docset"
	"github.com/fwojciec/docset/store"
)

// Run executes the update command.
func (c *UpdateCmd) Run(deps *Dependencies) error {
	if c.All && len(c.Slugs) > 0 {
		err := docset.Errorf(docset.EINVALID, "--all cannot be combined with slugs")
		fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}
	if !c.All && len(c.Slugs) == 0 {
		err := docset.Errorf(docset.EINVALID, "specify slugs to update or --all")
		fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}

	if c.All {
		result, err := deps.Store.UpdateAll(deps.Ctx)
		if result != nil {
			printBatch(deps, "Updated", result)
		}
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
			return err
		}
		return nil
	}

	var firstErr error
	for _, slug := range c.Slugs {
		if err := deps.Store.Update(deps.Ctx, slug); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Fprintf(deps.Stdout, "Updated %s\n", slug)
	}
	return firstErr
}

// printBatch reports the outcome of a batch install or update.
func printBatch(deps *Dependencies, verb string, result *store.BatchResult) {
	fmt.Fprintf(deps.Stdout, "%s %d documentation sets", verb, len(result.Succeeded))
	if len(result.Failed) > 0 {
		fmt.Fprintf(deps.Stdout, ", %d failed", len(result.Failed))
	}
	fmt.Fprintln(deps.Stdout)

	failed := make([]string, 0, len(result.Failed))
	for slug := range result.Failed {
		failed = append(failed, slug)
	}
	slices.Sort(failed)
	for _, slug := range failed {
		fmt.Fprintf(deps.Stderr, "  %s: %s\n", slug, docset.ErrorMessage(result.Failed[slug]))
	}
}
