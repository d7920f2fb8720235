// Package window provides a paginated view over an ordered sequence.
//
// A [Window] owns a backing sequence and a fixed page size, and materializes
// the sequence one page at a time. It tracks how many pages have been loaded,
// reports how many items remain, and guards call order: the first page must
// be loaded exactly once before any next page, and re-browsing requires an
// explicit sequence replacement. It performs no I/O and no rendering; the
// owner appends returned slices to whatever surface it manages.
package window

import (
	"errors"
)

var (
	// ErrAlreadyLoaded indicates that the first page was already loaded and
	// the window was not reset via [Window.Replace].
	ErrAlreadyLoaded = errors.New("first page already loaded")

	// ErrNotLoaded indicates that a next page was requested before the first
	// page was loaded.
	ErrNotLoaded = errors.New("first page not loaded")
)

// DefaultPageSize is the number of items materialized per page when no
// [WithPageSize] option is provided.
const DefaultPageSize = 36

// Opt configures a [Window].
type Opt func(*options)

type options struct {
	pageSize int
}

// WithPageSize sets the number of items returned per page. Values less than
// one are ignored in favor of [DefaultPageSize].
func WithPageSize(n int) Opt {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// Window maintains a windowed view over an ordered sequence of items.
//
// The zero page state is "uninitialized": nothing has been materialized and
// [Window.LoadNext] fails until [Window.LoadFirst] succeeds. Replacing the
// backing sequence returns the window to the uninitialized state. The
// backing sequence is treated as read-only; returned pages are subslices of
// it, in sequence order.
//
// A Window is not safe for concurrent use. It is intended to be owned by a
// single event loop.
type Window[T any] struct {
	seq      []T
	pageSize int
	page     int // 0 means uninitialized.
}

// New creates a [Window] over seq.
func New[T any](seq []T, opts ...Opt) *Window[T] {
	o := &options{pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(o)
	}

	return &Window[T]{
		seq:      seq,
		pageSize: o.pageSize,
	}
}

// LoadFirst materializes the first page. It returns the page items and the
// count of items remaining after them.
//
// It fails with [ErrAlreadyLoaded] if a first page was already loaded;
// re-browsing from the top requires [Window.Replace] first. This keeps
// accidental double-initialization from silently re-rendering duplicate
// content.
func (w *Window[T]) LoadFirst() ([]T, int, error) {
	if w.page != 0 {
		return nil, 0, ErrAlreadyLoaded
	}

	w.page = 1

	return w.slice(0), w.Remaining(), nil
}

// LoadNext materializes the page after the last one loaded. It returns the
// page items and the count of items remaining after them.
//
// It fails with [ErrNotLoaded] if no first page was loaded. Once the
// sequence is exhausted it returns an empty slice and a remaining count of
// zero, which is not an error; callers should consult [Window.Exhausted] to
// stop offering further loads.
func (w *Window[T]) LoadNext() ([]T, int, error) {
	if w.page == 0 {
		return nil, 0, ErrNotLoaded
	}

	start := w.page * w.pageSize
	w.page++

	return w.slice(start), w.Remaining(), nil
}

// Replace swaps the backing sequence and resets the window to the
// uninitialized state. It accepts any sequence, including an empty one, and
// never renders; callers must load the first page again.
func (w *Window[T]) Replace(seq []T) {
	w.seq = seq
	w.page = 0
}

// Remaining returns the count of items not yet materialized. Before the
// first page is loaded this is the full sequence length. It is never
// negative.
func (w *Window[T]) Remaining() int {
	if w.page == 0 {
		return len(w.seq)
	}

	return max(0, len(w.seq)-w.page*w.pageSize)
}

// Exhausted reports whether the window is initialized and no items remain.
// Callers use it to disable their "load more" affordance.
func (w *Window[T]) Exhausted() bool {
	return w.page > 0 && w.Remaining() == 0
}

// Loaded reports whether the first page has been loaded.
func (w *Window[T]) Loaded() bool {
	return w.page > 0
}

// Page returns the number of pages materialized so far, zero if
// uninitialized.
func (w *Window[T]) Page() int {
	return w.page
}

// Len returns the length of the backing sequence.
func (w *Window[T]) Len() int {
	return len(w.seq)
}

// PageSize returns the fixed page size of this window.
func (w *Window[T]) PageSize() int {
	return w.pageSize
}

// slice returns the page beginning at start, clamped to the sequence bounds.
func (w *Window[T]) slice(start int) []T {
	start = min(start, len(w.seq))
	end := min(start+w.pageSize, len(w.seq))

	return w.seq[start:end]
}
