package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/docset"
	main "github.com/fwojciec/docset/cmd/docset"
	"github.com/fwojciec/docset/fs"
	"github.com/fwojciec/docset/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goUpstream publishes a single "go" set with two pages.
func goUpstream() *mock.Provider {
	return &mock.Provider{
		FetchCatalogFn: func(_ context.Context) ([]docset.Doc, error) {
			return []docset.Doc{{Slug: "go", Name: "Go", Type: "go", Release: "1.22.0"}}, nil
		},
		FetchIndexFn: func(_ context.Context, slug string) (*docset.Index, error) {
			if slug != "go" {
				return nil, docset.Errorf(docset.ENOTFOUND, "documentation %q not found", slug)
			}
			return &docset.Index{
				Entries: []docset.Entry{
					{Name: "fmt", Path: "fmt/index", Type: "fmt"},
					{Name: "fmt.Println", Path: "fmt/index#Println", Type: "fmt"},
					{Name: "io.Reader", Path: "io/index#Reader", Type: "io"},
				},
				Types: []docset.EntryType{
					{Name: "fmt", Slug: "fmt", Count: 2},
					{Name: "io", Slug: "io", Count: 1},
				},
			}, nil
		},
		FetchContentFn: func(_ context.Context, _ string) (map[string]string, error) {
			return map[string]string{
				"fmt/index": `<h1>fmt</h1><p>Println prints. See <a href="../io/index#Reader">Reader</a>.</p>`,
				"io/index":  `<h1>io</h1>`,
			}, nil
		},
	}
}

func run(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()

	m := &main.Main{DataDir: dir, Provider: goUpstream()}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("no arguments prints help and fails", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, t.TempDir())

		require.Error(t, err)
		assert.Contains(t, stdout, "Usage:")
	})

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, t.TempDir(), "--help")

		require.NoError(t, err)
		assert.Contains(t, stdout, "install-all")
		assert.Contains(t, stdout, "search")
	})

	t.Run("unknown command fails", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, t.TempDir(), "frobnicate")

		require.Error(t, err)
	})

	t.Run("unknown backend fails", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, _, err := run(t, dir, "--dir", dir, "--backend", "postgres", "list")

		require.Error(t, err)
	})

	for _, backend := range []string{"fs", "sqlite"} {
		t.Run("install search show and remove with "+backend+" backend", func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			base := []string{"--dir", dir, "--backend", backend}

			stdout, _, err := run(t, dir, append(base, "install", "go")...)
			require.NoError(t, err)
			assert.Contains(t, stdout, "Installed go")

			// A new process sees the persisted set.
			stdout, _, err = run(t, dir, append(base, "list")...)
			require.NoError(t, err)
			assert.Regexp(t, `go\s+Go\s+3 entries`, stdout)

			stdout, _, err = run(t, dir, append(base, "search", "println", "-n", "1")...)
			require.NoError(t, err)
			assert.Contains(t, stdout, "fmt.Println")
			assert.NotContains(t, stdout, "io.Reader")

			stdout, _, err = run(t, dir, append(base, "show", "go", "fmt/index#Println")...)
			require.NoError(t, err)
			assert.Contains(t, stdout, "# fmt")
			assert.Contains(t, stdout, "[Reader](../io/index.html#Reader)")

			stdout, _, err = run(t, dir, append(base, "info", "go")...)
			require.NoError(t, err)
			assert.Contains(t, stdout, "Entries:   3")

			stdout, _, err = run(t, dir, append(base, "remove", "go")...)
			require.NoError(t, err)
			assert.Contains(t, stdout, "Removed go")

			stdout, _, err = run(t, dir, append(base, "list")...)
			require.NoError(t, err)
			assert.Contains(t, stdout, "No documentation installed")
		})
	}

	t.Run("catalog is served from the persisted snapshot", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, _, err := run(t, dir, "--dir", dir, "catalog")
		require.NoError(t, err)

		m := &main.Main{DataDir: dir, Provider: &mock.Provider{
			FetchCatalogFn: func(context.Context) ([]docset.Doc, error) {
				t.Error("catalog fetched despite fresh snapshot")
				return nil, nil
			},
		}}
		stdout := &bytes.Buffer{}
		err = m.Run(context.Background(), []string{"--dir", dir, "catalog"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "go")
	})

	t.Run("mutating commands fail while another process holds the lock", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		lock := fs.NewLock(dir)
		ok, err := lock.TryLock()
		require.NoError(t, err)
		require.True(t, ok)
		defer lock.Unlock()

		_, stderr, err := run(t, dir, "--dir", dir, "install", "go")

		require.Error(t, err)
		assert.Equal(t, docset.ECONFLICT, docset.ErrorCode(err))
		assert.Contains(t, stderr, "another docset process")

		// Read-only commands do not take the lock.
		_, _, err = run(t, dir, "--dir", dir, "list")
		require.NoError(t, err)
	})
}
