package catalog_test

import (
	"os"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolib/folio/pkg/catalog"
)

func TestNewReloadFilterErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		expression string
		wantErr    bool
	}{
		"event flags":    {expression: `fs.event.has(fs.WRITE, fs.RENAME)`},
		"path helpers":   {expression: `pathExt(file) in [".yaml", ".yml"]`},
		"yaml path":      {expression: `yamlPath(file, "$.kind") == "Catalog"`},
		"unknown var":    {expression: `banana == 1`, wantErr: true},
		"syntax error":   {expression: `fs.event.has(`, wantErr: true},
		"empty has call": {expression: `fs.event.has()`, wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := catalog.NewReloadFilter(tc.expression)
			if tc.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestReloadFilterMatches(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		expression string
		path       string
		op         fsnotify.Op
		want       bool
	}{
		"write matches": {
			expression: `fs.event.has(fs.WRITE)`,
			path:       "catalog.yaml",
			op:         fsnotify.Write,
			want:       true,
		},
		"remove does not match write filter": {
			expression: `fs.event.has(fs.WRITE)`,
			path:       "catalog.yaml",
			op:         fsnotify.Remove,
			want:       false,
		},
		"any of several flags": {
			expression: `fs.event.has(fs.CREATE, fs.RENAME)`,
			path:       "catalog.yaml",
			op:         fsnotify.Rename,
			want:       true,
		},
		"extension allow list": {
			expression: `pathExt(file) in [".yaml", ".yml"]`,
			path:       "/books/catalog.yml",
			op:         fsnotify.Write,
			want:       true,
		},
		"extension rejected": {
			expression: `pathExt(file) in [".yaml", ".yml"]`,
			path:       "/books/catalog.json",
			op:         fsnotify.Write,
			want:       false,
		},
		"base name skip": {
			expression: `pathBase(file) != "scratch.yaml"`,
			path:       "/books/scratch.yaml",
			op:         fsnotify.Write,
			want:       false,
		},
		"non-boolean result suppresses reload": {
			expression: `pathDir(file)`,
			path:       "/books/catalog.yaml",
			op:         fsnotify.Write,
			want:       false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := catalog.NewReloadFilter(tc.expression)
			require.NoError(t, err)

			assert.Equal(t, tc.want, f.Matches(tc.path, tc.op))
		})
	}
}

func TestReloadFilterYAMLPath(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, validCatalogYAML)

	f, err := catalog.NewReloadFilter(`yamlPath(file, "$.kind") == "Catalog"`)
	require.NoError(t, err)

	assert.True(t, f.Matches(path, fsnotify.Write))
	// Unreadable files resolve to null, not an error.
	assert.False(t, f.Matches(path+".missing", fsnotify.Write))
}

func TestLoaderWatchReloadFilter(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, validCatalogYAML)

	rf, err := catalog.NewReloadFilter(
		`fs.event.has(fs.WRITE, fs.CREATE, fs.RENAME) && yamlPath(file, "$.kind") == "Catalog"`,
	)
	require.NoError(t, err)

	l, err := catalog.NewLoader(path,
		catalog.WithWatch(true),
		catalog.WithDebounce(10*time.Millisecond),
		catalog.WithReloadFilter(rf),
	)
	require.NoError(t, err)

	t.Cleanup(l.Close)

	events := make(chan catalog.Event, 16)
	l.Subscribe(events)

	go l.WatchOnEvent()

	out := l.Load()
	require.NoError(t, out.Error)
	drainEvents(t, events, 2) // Start and end of the initial load.

	updated := validCatalogYAML + `  - title: The Lathe of Heaven
    author: Le Guin, Ursula K.
    genre: Science Fiction
    year: 1971
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	end := waitForEventEnd(t, events, 5*time.Second)
	require.NoError(t, end.Error)
	assert.Len(t, end.Books, 3)
}
