package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docset"
	"github.com/fwojciec/docset/fs"
	"github.com/fwojciec/docset/goquery"
	"github.com/fwojciec/docset/htmltomarkdown"
	docsethttp "github.com/fwojciec/docset/http"
	"github.com/fwojciec/docset/search"
	docsetslog "github.com/fwojciec/docset/slog"
	"github.com/fwojciec/docset/sqlite"
	"github.com/fwojciec/docset/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Data directory used when --dir is not given. Set before calling Run().
	DataDir string

	// SQLite database, opened when the sqlite backend is selected.
	DB *sqlite.DB

	// Provider replaces the upstream HTTP client for end-to-end testing.
	Provider docset.Provider
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DataDir: defaultDataDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docset"),
		kong.Description("Offline DevDocs documentation with fuzzy search."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docset --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	dir := cli.Dir
	if dir == "" {
		dir = m.DataDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %q: %w", dir, err)
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Only one process may change installed documentation at a time.
	if isMutating(kongCtx.Command()) {
		lock := fs.NewLock(dir)
		ok, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("failed to lock data directory: %w", err)
		}
		if !ok {
			fmt.Fprintf(stderr, "error: another docset process is using %s\n", dir)
			return docset.Errorf(docset.ECONFLICT, "data directory %q is locked", dir)
		}
		defer lock.Unlock()
	}

	records, contents, err := m.openBackend(cli.Backend, dir)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCSET_DIR to use a different data directory\n")
		return err
	}
	defer m.Close()

	provider := m.Provider
	if provider == nil {
		opts := []docsethttp.Option{
			docsethttp.WithTimeout(cli.Timeout),
			docsethttp.WithRateLimit(cli.Rate, docsethttp.DefaultBurst),
			docsethttp.WithLogger(logger),
		}
		if cli.Retry {
			opts = append(opts, docsethttp.WithRetryDelays(docsethttp.DefaultRetryDelays()...))
		}
		provider = docsethttp.NewClient(opts...)
	}
	if cli.Verbose {
		provider = docsetslog.NewLoggingProvider(provider, logger)
		records = docsetslog.NewLoggingRecordStore(records, logger)
	}

	st := store.New(provider, records,
		store.WithLogger(logger),
		store.WithContentStore(contents),
	)
	if err := st.Load(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", docset.ErrorMessage(err))
		return err
	}

	var searcher docset.Searcher = search.NewEngine(st)
	if cli.Verbose {
		searcher = docsetslog.NewLoggingSearcher(searcher, logger)
	}

	deps.Store = st
	deps.Searcher = searcher
	deps.Contents = contents
	deps.Converter = htmltomarkdown.NewConverter()

	return kongCtx.Run(deps)
}

// openBackend returns the record and content stores of the selected backend.
func (m *Main) openBackend(backend, dir string) (docset.RecordStore, docset.ContentStore, error) {
	rewriter := goquery.NewLinkRewriter()

	switch backend {
	case "sqlite":
		path := filepath.Join(dir, "docset.db")
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			return nil, nil, fmt.Errorf("failed to open database at %q: %w", path, err)
		}
		return sqlite.NewRecordStore(m.DB), sqlite.NewContentStore(m.DB, rewriter), nil
	default:
		return fs.NewRecordStore(dir), fs.NewContentStore(dir, rewriter), nil
	}
}

// isMutating reports whether a Kong command path changes installed data.
func isMutating(command string) bool {
	name, _, _ := strings.Cut(command, " ")
	switch name {
	case "install", "install-all", "remove", "update":
		return true
	}
	return false
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "docset")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docset"
	}
	return filepath.Join(home, ".local", "share", "docset")
}
