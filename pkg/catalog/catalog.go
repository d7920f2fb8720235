// Package catalog loads the book catalog and broadcasts load events.
//
// A [Loader] owns a single catalog file. It parses and validates the file on
// demand, optionally watches it for changes via fsnotify, and broadcasts
// [Event] values to subscribers. A [Static] source serves a fixed document,
// used for the embedded starter catalog and for stdin input.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/aymanbagabas/go-udiff"

	"github.com/foliolib/folio/pkg/book"
)

// Output is the result of one catalog load.
type Output struct {
	Timestamp time.Time
	Error     error
	Name      string
	Raw       []byte
	Books     []*book.Book

	// Added and Removed count changed lines relative to the previous load.
	// Both are zero on the first load.
	Added   int
	Removed int
}

// NewOutput creates a new [Output] timestamped with the current time.
func NewOutput(opts ...OutputOpt) Output {
	o := &Output{
		Timestamp: time.Now(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return *o
}

type OutputOpt func(*Output)

// WithError sets the error for the output.
func WithError(err error) OutputOpt {
	return func(o *Output) {
		o.Error = err
	}
}

// Event represents an event related to catalog loading.
type Event interface {
	GetContext() context.Context
}

type (
	// EventStart indicates that a catalog load has started.
	EventStart struct {
		ctx context.Context
	}

	// EventEnd indicates that a catalog load has ended. It carries the
	// output of the load, which includes the error if the load failed.
	EventEnd struct {
		ctx context.Context

		Output
	}

	// EventConfigure indicates that a source has been configured (or
	// re-configured).
	EventConfigure struct {
		ctx context.Context
	}
)

func NewEventStart(ctx context.Context) EventStart {
	return EventStart{ctx: ctx}
}

func (e EventStart) GetContext() context.Context {
	return e.ctx
}

func NewEventEnd(ctx context.Context, out Output) EventEnd {
	return EventEnd{ctx: ctx, Output: out}
}

func (e EventEnd) GetContext() context.Context {
	return e.ctx
}

func NewEventConfigure(ctx context.Context) EventConfigure {
	return EventConfigure{ctx: ctx}
}

func (e EventConfigure) GetContext() context.Context {
	return e.ctx
}

// ChangeSummary reports how many lines were added and removed between two
// revisions of the raw catalog document.
func ChangeSummary(previous, current []byte) (added, removed int) {
	if previous == nil {
		return 0, 0
	}

	before := string(previous)
	for _, edit := range udiff.Strings(before, string(current)) {
		added += countLines(edit.New)
		removed += countLines(before[edit.Start:edit.End])
	}

	return added, removed
}

func countLines(s string) int {
	if s == "" {
		return 0
	}

	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}

	return n
}
