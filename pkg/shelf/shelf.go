package shelf

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/foliolib/folio/pkg/book"
	"github.com/foliolib/folio/pkg/expr"
)

// Shelf uses a CEL matcher to determine which books it holds.
//
// CEL expressions have access to variables:
//   - `book` (map<string, dyn>): The record under evaluation, with keys
//     title, author, genre, year, pages, rating, language, description,
//     excerpt, and tags
//
// CEL expressions must return a boolean value:
//   - book.year < 1900 - true for books published before 1900
//   - "classic" in book.tags - true for books tagged classic
//   - book.author.contains("Le Guin") - true for matching authors
//   - book.rating >= 4.0 && book.language == "en" - true for well-rated English editions
//   - book.title.matches(".*Odyssey.*") - true for titles matching a pattern
//   - false - shelf holds nothing
//
// CEL also provides standard functions like `endsWith`, `contains`,
// `startsWith`, `matches`, along with list functions like `filter`, `exists`, `in`, and
// logical operators like `&&`, `||`, and `!`.
//
// Use the `in` operator to check membership in lists, e.g.: "classic" in book.tags.
type Shelf struct {
	matchProgram cel.Program // Compiled CEL program for matching books.

	// Name identifies the shelf in the browse view.
	Name string `json:"name" jsonschema:"title=Shelf Name"`
	// Expr is a CEL expression selecting the books on this shelf.
	Expr string `json:"expr" jsonschema:"title=Match Expression"`
}

// New creates a new shelf with the given name and match expression.
func New(name, expression string) (*Shelf, error) {
	s := &Shelf{
		Name: name,
		Expr: expression,
	}
	if err := s.CompileExpr(); err != nil {
		return nil, fmt.Errorf("shelf %q: %w", name, err)
	}

	return s, nil
}

// MustNew creates a new shelf and panics if there's an error.
func MustNew(name, expression string) *Shelf {
	s, err := New(name, expression)
	if err != nil {
		panic(err)
	}

	return s
}

// CompileExpr compiles the shelf's match expression into a CEL program.
func (s *Shelf) CompileExpr() error {
	if s.matchProgram == nil {
		env, err := expr.NewEnvironment(
			cel.Variable("book", cel.MapType(cel.StringType, cel.DynType)),
		)
		if err != nil {
			return fmt.Errorf("create CEL environment: %w", err)
		}

		program, err := env.Compile(s.Expr)
		if err != nil {
			return fmt.Errorf("compile match expression: %w", err)
		}

		s.matchProgram = program
	}

	return nil
}

// Matches evaluates the shelf's expression against a single book.
//
// The CEL expression must return a boolean value indicating whether the book
// belongs on the shelf.
func (s *Shelf) Matches(b *book.Book) bool {
	if s.matchProgram == nil {
		panic(errors.New("shelf missing a match expression"))
	}

	result, _, err := s.matchProgram.Eval(map[string]any{
		"book": bookVars(b),
	})
	if err != nil {
		// If evaluation fails, consider it a non-match.
		return false
	}

	// CEL expression must return a boolean value.
	if boolVal, ok := result.Value().(bool); ok {
		return boolVal
	}

	// If the result is not a boolean, treat as non-match.
	return false
}

// Filter returns the books matching the shelf's expression, preserving the
// input order.
func (s *Shelf) Filter(books []*book.Book) []*book.Book {
	out := make([]*book.Book, 0, len(books))

	for _, b := range books {
		if s.Matches(b) {
			out = append(out, b)
		}
	}

	return out
}

func (s *Shelf) String() string {
	return fmt.Sprintf("%s: %s", s.Name, s.Expr)
}

// bookVars flattens a book into the map exposed to CEL. Every key is always
// present, so expressions never fail on missing fields.
func bookVars(b *book.Book) map[string]any {
	return map[string]any{
		"title":       b.Title,
		"author":      b.Author,
		"genre":       b.Genre,
		"year":        b.Year,
		"pages":       b.Pages,
		"rating":      b.Rating,
		"language":    b.Language,
		"description": b.Description,
		"excerpt":     b.Excerpt,
		"tags":        b.Tags,
	}
}
