package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docset"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	if !deps.Store.IsInstalled(c.Slug) {
		err := docset.Errorf(docset.ENOTFOUND, "documentation %q is not installed", c.Slug)
		fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}

	html, err := deps.Contents.ReadContent(deps.Ctx, c.Slug, c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}

	md, err := deps.Converter.Convert(html)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}

	if !c.Outline {
		fmt.Fprint(deps.Stdout, md)
		return nil
	}

	for _, h := range docset.Outline(md) {
		fmt.Fprintf(deps.Stdout, "%s%s  #%s\n", strings.Repeat("  ", h.Level-1), h.Title, h.Anchor)
	}
	return nil
}
