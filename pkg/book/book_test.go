package book_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolib/folio/pkg/book"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		expected string
	}{
		"plain ascii": {
			input:    "The Dispossessed",
			expected: "The Dispossessed",
		},
		"diacritics folded": {
			input:    "Gabriel García Márquez",
			expected: "Gabriel Garcia Marquez",
		},
		"umlaut folded": {
			input:    "Böll",
			expected: "Boll",
		},
		"empty": {
			input:    "",
			expected: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out, err := book.Normalize(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestFilterValue(t *testing.T) {
	t.Parallel()

	b := &book.Book{
		Title:  "Cien años de soledad",
		Author: "Gabriel García Márquez",
		Genre:  "Magic Realism",
	}

	assert.Equal(t, "Cien anos de soledad Gabriel Garcia Marquez Magic Realism", b.FilterValue())

	// The value is rebuilt on demand.
	b.BuildFilterValue()
	assert.Equal(t, "Cien anos de soledad Gabriel Garcia Marquez Magic Realism", b.FilterValue())
}

func TestCitation(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		book     book.Book
		expected string
	}{
		"full": {
			book:     book.Book{Title: "Solaris", Author: "Stanisław Lem", Year: 1961},
			expected: "Stanisław Lem. Solaris. 1961.",
		},
		"no year": {
			book:     book.Book{Title: "Solaris", Author: "Stanisław Lem"},
			expected: "Stanisław Lem. Solaris.",
		},
		"title only": {
			book:     book.Book{Title: "Beowulf"},
			expected: "Beowulf.",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, tc.book.Citation())
		})
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	newBooks := func() []*book.Book {
		return []*book.Book{
			{Title: "The Left Hand of Darkness", Author: "Le Guin, Ursula K.", Year: 1969},
			{Title: "A Wizard of Earthsea", Author: "Le Guin, Ursula K.", Year: 1968},
			{Title: "Solaris", Author: "Lem, Stanisław", Year: 1961},
		}
	}

	tcs := map[string]struct {
		by       book.SortBy
		expected []string
	}{
		"by title": {
			by:       book.SortByTitle,
			expected: []string{"A Wizard of Earthsea", "Solaris", "The Left Hand of Darkness"},
		},
		"by author with title tie-break": {
			by:       book.SortByAuthor,
			expected: []string{"A Wizard of Earthsea", "The Left Hand of Darkness", "Solaris"},
		},
		"by year": {
			by:       book.SortByYear,
			expected: []string{"Solaris", "A Wizard of Earthsea", "The Left Hand of Darkness"},
		},
		"unknown field falls back to title": {
			by:       book.SortBy("isbn"),
			expected: []string{"A Wizard of Earthsea", "Solaris", "The Left Hand of Darkness"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			books := newBooks()
			book.Sort(books, tc.by)

			titles := make([]string, len(books))
			for i, b := range books {
				titles[i] = b.Title
			}

			assert.Equal(t, tc.expected, titles)
		})
	}
}
