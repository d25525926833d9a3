package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/docset"
	"github.com/fwojciec/docset/store"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Store     *store.Store
	Searcher  docset.Searcher
	Contents  docset.ContentStore
	Converter docset.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Dir     string        `help:"Data directory" env:"DOCSET_DIR" type:"path"`
	Backend string        `help:"Storage backend (fs or sqlite)" enum:"fs,sqlite" default:"fs" env:"DOCSET_BACKEND"`
	Timeout time.Duration `help:"Upstream request timeout" default:"30s"`
	Rate    float64       `help:"Upstream requests per second, 0 for no limit" default:"10"`
	Retry   bool          `help:"Retry failed upstream requests with backoff"`
	Verbose bool          `short:"v" help:"Log every upstream and storage call"`

	Catalog    CatalogCmd    `cmd:"" help:"List documentation available upstream"`
	Install    InstallCmd    `cmd:"" help:"Install documentation sets"`
	InstallAll InstallAllCmd `cmd:"" name:"install-all" help:"Install every available documentation set"`
	Remove     RemoveCmd     `cmd:"" help:"Remove installed documentation sets"`
	Update     UpdateCmd     `cmd:"" help:"Update installed documentation sets"`
	List       ListCmd       `cmd:"" help:"List installed documentation sets"`
	Info       InfoCmd       `cmd:"" help:"Show details of an installed documentation set"`
	Search     SearchCmd     `cmd:"" help:"Search installed documentation"`
	Show       ShowCmd       `cmd:"" help:"Print an installed page as Markdown"`
}

// CatalogCmd is the "catalog" subcommand.
type CatalogCmd struct {
	Filter  string `arg:"" optional:"" help:"Only list sets whose slug or name contains this text"`
	Refresh bool   `short:"r" help:"Fetch the catalog even if the cached copy is fresh"`
}

// InstallCmd is the "install" subcommand.
type InstallCmd struct {
	Slugs []string `arg:"" help:"Documentation slugs, e.g. go or react~18"`
}

// InstallAllCmd is the "install-all" subcommand.
type InstallAllCmd struct{}

// RemoveCmd is the "remove" subcommand.
type RemoveCmd struct {
	Slugs []string `arg:"" help:"Installed documentation slugs"`
}

// UpdateCmd is the "update" subcommand.
type UpdateCmd struct {
	Slugs []string `arg:"" optional:"" help:"Installed documentation slugs"`
	All   bool     `short:"a" help:"Update every installed set"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// InfoCmd is the "info" subcommand.
type InfoCmd struct {
	Slug string `arg:"" help:"Installed documentation slug"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string `arg:"" help:"Search query"`
	Limit    int    `short:"n" default:"50" help:"Maximum number of results"`
	MinScore uint16 `name:"min-score" default:"0" help:"Drop results scoring below this"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Slug string `arg:"" help:"Installed documentation slug"`
	Path    string `arg:"" help:"Page path as shown by search"`
	Outline bool   `short:"o" help:"Print the page headings instead of the page"`
}
