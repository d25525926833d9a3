package main

import (
	"fmt"

	"github.com/fwojciec/docset"
)

// Run executes the remove command.
func (c *RemoveCmd) Run(deps *Dependencies) error {
	var firstErr error
	for _, slug := range c.Slugs {
		if err := deps.Store.Remove(deps.Ctx, slug); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Fprintf(deps.Stdout, "Removed %s\n", slug)
	}
	return firstErr
}
