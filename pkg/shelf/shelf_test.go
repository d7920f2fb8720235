package shelf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolib/folio/pkg/book"
	"github.com/foliolib/folio/pkg/shelf"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		shelfName string
		expr      string
		wantErr   bool
	}{
		{
			name:      "valid shelf",
			shelfName: "classics",
			expr:      `book.year < 1900`,
			wantErr:   false,
		},
		{
			name:      "valid shelf with tag expression",
			shelfName: "favorites",
			expr:      `"classic" in book.tags`,
			wantErr:   false,
		},
		{
			name:      "invalid CEL expression",
			shelfName: "broken",
			expr:      "book.invalidFunction()",
			wantErr:   true,
		},
		{
			name:      "empty expression",
			shelfName: "empty",
			expr:      "",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := shelf.New(tt.shelfName, tt.expr)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, s)
				assert.Contains(t, err.Error(), tt.shelfName)
			} else {
				require.NoError(t, err)
				require.NotNil(t, s)
				assert.Equal(t, tt.expr, s.Expr)
				assert.Equal(t, tt.shelfName, s.Name)
			}
		})
	}
}

func TestMustNew(t *testing.T) {
	t.Parallel()

	t.Run("valid shelf", func(t *testing.T) {
		t.Parallel()

		s := shelf.MustNew("novels", `book.genre == "Novel"`)
		require.NotNil(t, s)
		assert.Equal(t, `book.genre == "Novel"`, s.Expr)
		assert.Equal(t, "novels", s.Name)
	})

	t.Run("invalid shelf panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			shelf.MustNew("broken", "book.invalidFunction()")
		})
	})
}

func TestShelf_CompileExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{
			name:    "valid CEL expression",
			expr:    `book.year < 1900`,
			wantErr: false,
		},
		{
			name:    "complex CEL expression",
			expr:    `book.rating >= 4.0 && book.language in ["en", "fr"]`,
			wantErr: false,
		},
		{
			name:    "invalid CEL expression",
			expr:    "book.invalidFunction()",
			wantErr: true,
		},
		{
			name:    "empty expression",
			expr:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &shelf.Shelf{
				Name: "test",
				Expr: tt.expr,
			}

			err := s.CompileExpr()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "compile match expression")
			} else {
				require.NoError(t, err)
				// Calling CompileExpr again should not cause an error.
				err2 := s.CompileExpr()
				require.NoError(t, err2)
			}
		})
	}
}

func TestShelf_Matches(t *testing.T) {
	t.Parallel()

	austen := &book.Book{
		Title:    "Pride and Prejudice",
		Author:   "Jane Austen",
		Genre:    "Novel",
		Year:     1813,
		Rating:   4.6,
		Language: "en",
		Tags:     []string{"classic", "romance"},
	}

	tests := []struct {
		name        string
		expression  string
		b           *book.Book
		wantMatches bool
	}{
		{
			name:        "boolean expression - true",
			expression:  `book.year < 1900`,
			b:           austen,
			wantMatches: true,
		},
		{
			name:        "boolean expression - false",
			expression:  `book.genre == "Poetry"`,
			b:           austen,
			wantMatches: false,
		},
		{
			name:        "tag membership",
			expression:  `"classic" in book.tags`,
			b:           austen,
			wantMatches: true,
		},
		{
			name:        "book without tags",
			expression:  `"classic" in book.tags`,
			b:           &book.Book{Title: "Untagged", Author: "Anon"},
			wantMatches: false,
		},
		{
			name:        "simple boolean - true",
			expression:  `true`,
			b:           austen,
			wantMatches: true,
		},
		{
			name:        "simple boolean - false",
			expression:  `false`,
			b:           austen,
			wantMatches: false,
		},
		{
			name:        "non-boolean expression returns false",
			expression:  `book.title`,
			b:           austen,
			wantMatches: false,
		},
		{
			name:        "evaluation error returns false",
			expression:  `book.year < 1900 && book.missing == 1`,
			b:           austen,
			wantMatches: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := shelf.New("test-shelf", tt.expression)
			require.NoError(t, err)

			gotMatches := s.Matches(tt.b)
			assert.Equal(t, tt.wantMatches, gotMatches)
		})
	}
}

func TestShelf_Filter(t *testing.T) {
	t.Parallel()

	books := []*book.Book{
		{Title: "Pride and Prejudice", Author: "Jane Austen", Year: 1813, Tags: []string{"classic"}},
		{Title: "Frankenstein", Author: "Mary Shelley", Year: 1818, Tags: []string{"classic", "gothic"}},
		{Title: "Dune", Author: "Frank Herbert", Year: 1965, Tags: []string{"science-fiction"}},
		{Title: "Neuromancer", Author: "William Gibson", Year: 1984, Tags: []string{"science-fiction"}},
	}

	tests := []struct {
		name       string
		expression string
		wantTitles []string
	}{
		{
			name:       "books before 1900",
			expression: `book.year < 1900`,
			wantTitles: []string{"Pride and Prejudice", "Frankenstein"},
		},
		{
			name:       "tagged science fiction",
			expression: `"science-fiction" in book.tags`,
			wantTitles: []string{"Dune", "Neuromancer"},
		},
		{
			name:       "no matches",
			expression: `book.year > 2000`,
			wantTitles: []string{},
		},
		{
			name:       "all match",
			expression: `book.title != ""`,
			wantTitles: []string{"Pride and Prejudice", "Frankenstein", "Dune", "Neuromancer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := shelf.New("test-shelf", tt.expression)
			require.NoError(t, err)

			got := s.Filter(books)

			gotTitles := make([]string, 0, len(got))
			for _, b := range got {
				gotTitles = append(gotTitles, b.Title)
			}

			assert.Equal(t, tt.wantTitles, gotTitles)
		})
	}
}

func TestShelf_String(t *testing.T) {
	t.Parallel()

	s := shelf.MustNew("classics", `book.year < 1900`)
	assert.Equal(t, "classics: book.year < 1900", s.String())
}
