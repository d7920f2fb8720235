// Package book defines the catalog item type and its filter and sort
// helpers.
package book

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Book is one catalog entry.
type Book struct {
	// Title of the book.
	Title string `json:"title" jsonschema:"title=Title"`
	// Author name, "Family, Given" or free form.
	Author string `json:"author" jsonschema:"title=Author"`
	// Genre label, free form (e.g. "Science Fiction").
	Genre string `json:"genre,omitempty" jsonschema:"title=Genre"`
	// Year of first publication.
	Year int `json:"year,omitempty" jsonschema:"title=Year"`
	// Pages in a typical print edition.
	Pages int `json:"pages,omitempty" jsonschema:"title=Pages"`
	// Rating on a 0-5 scale.
	Rating float64 `json:"rating,omitempty" jsonschema:"title=Rating"`
	// Language of the edition.
	Language string `json:"language,omitempty" jsonschema:"title=Language"`
	// Description is a short blurb shown in the detail view.
	Description string `json:"description,omitempty" jsonschema:"title=Description"`
	// Excerpt is an optional opening passage shown in the detail view.
	Excerpt string `json:"excerpt,omitempty" jsonschema:"title=Excerpt"`
	// Tags are free-form labels usable in shelf expressions.
	Tags []string `json:"tags,omitempty" jsonschema:"title=Tags"`

	// filterValue is the normalized value we filter against. Ephemeral,
	// rebuilt on catalog load, referenced only during filtering.
	filterValue string
}

// FilterValue returns the normalized string used for fuzzy matching,
// building it on first use.
func (b *Book) FilterValue() string {
	if b.filterValue == "" {
		b.BuildFilterValue()
	}

	return b.filterValue
}

// BuildFilterValue generates the value we filter against: the title, author
// and genre with diacritics folded.
func (b *Book) BuildFilterValue() {
	b.filterValue = ""

	for _, part := range []string{b.Title, b.Author, b.Genre} {
		normalized, err := Normalize(part)
		if err != nil {
			slog.Error("normalize filter value",
				slog.String("value", part),
				slog.Any("err", err),
			)

			normalized = part
		}

		if b.filterValue != "" {
			b.filterValue += " "
		}

		b.filterValue += normalized
	}
}

// Citation returns a short citation line, used by the copy action.
func (b *Book) Citation() string {
	var sb strings.Builder

	if b.Author != "" {
		sb.WriteString(b.Author)
		sb.WriteString(". ")
	}

	sb.WriteString(b.Title)
	sb.WriteString(".")

	if b.Year > 0 {
		fmt.Fprintf(&sb, " %d.", b.Year)
	}

	return sb.String()
}

// Normalize folds text to aid in the filtering process. In particular, we
// remove diacritics, so "ö" becomes "o". Mn is the unicode key for
// nonspacing marks.
func Normalize(in string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, in)
	if err != nil {
		return "", fmt.Errorf("normalize: %w", err)
	}

	return out, nil
}

// SortBy identifies a sort order for a slice of books.
type SortBy string

const (
	SortByTitle  SortBy = "title"
	SortByAuthor SortBy = "author"
	SortByYear   SortBy = "year"
)

// Sort orders books in place, stably, by the given field. Title is the
// fallback for unknown fields and the tie-breaker for the others.
func Sort(books []*Book, by SortBy) {
	slices.SortStableFunc(books, func(a, b *Book) int {
		switch by {
		case SortByAuthor:
			if c := strings.Compare(strings.ToLower(a.Author), strings.ToLower(b.Author)); c != 0 {
				return c
			}
		case SortByYear:
			if c := a.Year - b.Year; c != 0 {
				return c
			}
		case SortByTitle:
		}

		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})
}
