package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/foliolib/folio/api"
	"github.com/foliolib/folio/api/v1/catalogs"
	"github.com/foliolib/folio/pkg/config"
	"github.com/foliolib/folio/pkg/log"
)

// DefaultDebounce is how long the watcher waits after the last filesystem
// event before reloading. Editors often emit several events per save.
const DefaultDebounce = 100 * time.Millisecond

// Loader loads a catalog file from disk. It manages:
//   - Parsing and schema validation.
//   - Filesystem notifications / watching.
//   - Broadcasting load events to subscribers.
type Loader struct {
	tracer  trace.Tracer
	watcher *fsnotify.Watcher

	path     string
	absPath  string
	debounce time.Duration
	filter   *ReloadFilter

	listeners []chan<- Event

	// lastRaw holds the raw bytes from the previous successful load, used
	// to compute the change summary on reload.
	lastRaw []byte
	name    string

	mu    sync.Mutex
	watch bool
}

// NewLoader creates a new [Loader] for the catalog file at path.
func NewLoader(path string, opts ...LoaderOpt) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path %q: %w", path, err)
	}

	if info.IsDir() {
		found, err := catalogs.Find(absPath)
		if err != nil {
			return nil, err
		}
		if found == "" {
			return nil, fmt.Errorf("no catalog file found in %q", path)
		}

		absPath = found
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	l := &Loader{
		tracer:   otel.Tracer("catalog-loader"),
		watcher:  watcher,
		path:     path,
		absPath:  absPath,
		debounce: DefaultDebounce,
		name:     filepath.Base(absPath),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.watch {
		// Watch the parent directory so that replace-on-save editors are
		// handled the same way as in-place writes.
		err := watcher.Add(filepath.Dir(absPath))
		if err != nil {
			return nil, fmt.Errorf("add path to watcher: %w", err)
		}
	}

	l.broadcast(NewEventConfigure(context.Background()))

	return l, nil
}

type LoaderOpt func(l *Loader)

// WithWatch enables filesystem watching for the loader.
func WithWatch(watch bool) LoaderOpt {
	return func(l *Loader) {
		l.watch = watch
	}
}

// WithReloadFilter makes the watcher consult a [ReloadFilter] before
// reloading in response to a filesystem event.
func WithReloadFilter(f *ReloadFilter) LoaderOpt {
	return func(l *Loader) {
		l.filter = f
	}
}

// WithDebounce sets the delay between the last filesystem event and the
// triggered reload. Non-positive values are ignored.
func WithDebounce(d time.Duration) LoaderOpt {
	return func(l *Loader) {
		if d > 0 {
			l.debounce = d
		}
	}
}

// Load reads, parses and validates the catalog file. The output is also
// broadcast to all subscribers.
func (l *Loader) Load() Output {
	return l.LoadContext(context.Background())
}

// LoadContext is [Loader.Load] with the provided context, which can be used
// for tracing.
func (l *Loader) LoadContext(ctx context.Context) Output {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx, span := l.tracer.Start(ctx, "load", trace.WithAttributes(
		attribute.String("path", l.absPath),
	))
	defer span.End()

	l.broadcast(NewEventStart(ctx))

	out := NewOutput()

	data, err := api.ReadFile(l.absPath)
	if err != nil {
		out.Error = err
		l.broadcast(NewEventEnd(ctx, out))

		return out
	}

	c, err := l.parse(data)
	if err != nil {
		out.Error = err
		l.broadcast(NewEventEnd(ctx, out))

		return out
	}

	out.Name = c.Name()
	out.Raw = data
	out.Books = c.Books
	out.Added, out.Removed = ChangeSummary(l.lastRaw, data)
	l.lastRaw = data

	log.WithContext(ctx).DebugContext(ctx, "loaded catalog",
		slog.String("path", l.absPath),
		slog.String("name", out.Name),
		slog.Int("books", len(out.Books)),
	)

	l.broadcast(NewEventEnd(ctx, out))

	return out
}

func (l *Loader) parse(data []byte) (*catalogs.Catalog, error) {
	cl := config.NewLoaderFromBytes(data, catalogs.New, catalogs.DefaultValidator)

	err := cl.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %q: %w", l.path, err)
	}

	c, err := cl.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %q: %w", l.path, err)
	}

	err = c.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %q: %w", l.path, err)
	}

	for _, b := range c.Books {
		b.BuildFilterValue()
	}

	return c, nil
}

// WatchOnEvent listens for filesystem events and reloads the catalog in
// response. Outputs should be collected via [Loader.Subscribe]. It returns
// when the watcher is closed.
func (l *Loader) WatchOnEvent() {
	var (
		debounce *time.Timer
		reload   = func() {
			go l.LoadContext(context.Background())
		}
	)

	for {
		select {
		case evt, ok := <-l.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(evt.Name) != l.absPath {
				continue
			}

			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) {
				continue
			}

			if l.filter != nil && !l.filter.Matches(evt.Name, evt.Op) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}

			debounce = time.AfterFunc(l.debounce, reload)

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}

			l.broadcast(NewEventEnd(
				context.Background(),
				NewOutput(WithError(err)),
			))
		}
	}
}

// Subscribe allows other components to listen for catalog events.
func (l *Loader) Subscribe(ch chan<- Event) {
	l.listeners = append(l.listeners, ch)
}

func (l *Loader) broadcast(evt Event) {
	ctx := evt.GetContext()

	log.WithContext(ctx).DebugContext(ctx, "broadcasting event",
		slog.String("event", fmt.Sprintf("%T", evt)),
	)

	for _, ch := range l.listeners {
		ch <- evt
	}
}

// Close stops the filesystem watcher.
func (l *Loader) Close() {
	err := l.watcher.Close()
	if err != nil {
		slog.Error("close watcher", slog.Any("err", err))
	}
}

// Path returns the absolute path of the catalog file.
func (l *Loader) Path() string {
	return l.absPath
}

func (l *Loader) String() string {
	return l.name
}
