package main

import (
	"fmt"

	"github.com/fwojciec/docset"
)

// Run executes the install command. Every slug is attempted; the first
// failure is returned after all have been tried.
func (c *InstallCmd) Run(deps *Dependencies) error {
	var firstErr error
	for _, slug := range c.Slugs {
		if deps.Store.IsInstalled(slug) {
			fmt.Fprintf(deps.Stdout, "%s is already installed\n", slug)
			continue
		}
		if err := deps.Store.Install(deps.Ctx, slug); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Fprintf(deps.Stdout, "Installed %s\n", slug)
	}
	return firstErr
}

// Run executes the install-all command.
func (c *InstallAllCmd) Run(deps *Dependencies) error {
	result, err := deps.Store.InstallAll(deps.Ctx)
	if result != nil {
		printBatch(deps, "Installed", result)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}
	return nil
}
