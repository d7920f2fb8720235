package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/foliolib/folio/api/v1/catalogs"
	"github.com/foliolib/folio/pkg/book"
	"github.com/foliolib/folio/pkg/config"
)

// Static serves a fixed catalog document. It is used for the embedded
// starter catalog and for documents piped in over stdin.
type Static struct {
	name      string
	books     []*book.Book
	raw       []byte
	listeners []chan<- Event
}

// NewStatic creates a [Static] source from raw catalog YAML.
func NewStatic(input []byte) (*Static, error) {
	if len(input) == 0 {
		return nil, errors.New("input cannot be empty")
	}

	cl := config.NewLoaderFromBytes(input, catalogs.New, catalogs.DefaultValidator)

	err := cl.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	c, err := cl.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	err = c.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	for _, b := range c.Books {
		b.BuildFilterValue()
	}

	return &Static{
		name:  c.Name(),
		books: c.Books,
		raw:   input,
	}, nil
}

// NewDefault creates a [Static] source over the embedded starter catalog.
func NewDefault() *Static {
	s, err := NewStatic(catalogs.DefaultYAML())
	if err != nil {
		// The embedded catalog must always parse.
		panic(err)
	}

	return s
}

func (s *Static) Load() Output {
	return s.LoadContext(context.Background())
}

func (s *Static) LoadContext(ctx context.Context) Output {
	s.broadcast(NewEventStart(ctx))

	out := NewOutput()
	out.Name = s.name
	out.Raw = s.raw
	out.Books = s.books
	if s.books == nil {
		out.Error = errors.New("no books available")
	}

	s.broadcast(NewEventEnd(ctx, out))

	return out
}

func (s *Static) WatchOnEvent() {
	// No filesystem to watch for static catalogs.
}

func (s *Static) Subscribe(ch chan<- Event) {
	s.listeners = append(s.listeners, ch)
}

func (s *Static) broadcast(evt Event) {
	for _, ch := range s.listeners {
		ch <- evt
	}
}

func (s *Static) Path() string {
	return ""
}

func (s *Static) String() string {
	return s.name
}
