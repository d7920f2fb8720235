// Package filterform implements the structured filter form: author match,
// genre selection, and a year range, applied to the catalog as one query.
package filterform

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	xstrings "github.com/charmbracelet/x/exp/strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/foliolib/folio/pkg/book"
	"github.com/foliolib/folio/pkg/ui/theme"
)

const anyGenre = "Any"

type Model struct {
	form *huh.Form

	books []*book.Book

	author   *string
	genre    *string
	yearFrom *string
	yearTo   *string

	height int
}

func NewModel(books []*book.Book, t *theme.Theme) Model {
	var (
		m        Model
		author   string
		yearFrom string
		yearTo   string
	)

	genre := anyGenre

	m.books = books
	m.author = &author
	m.genre = &genre
	m.yearFrom = &yearFrom
	m.yearTo = &yearTo

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("author").
				Title("Author").
				Placeholder("contains...").
				Value(m.author),

			huh.NewSelect[string]().
				Key("genre").
				Title("Genre").
				Options(huh.NewOptions(genreOptions(books)...)...).
				Value(m.genre),

			huh.NewInput().
				Key("yearFrom").
				Title("Published after").
				Placeholder("year").
				Validate(validateYear).
				Value(m.yearFrom),

			huh.NewInput().
				Key("yearTo").
				Title("Published before").
				Placeholder("year").
				Validate(validateYear).
				Value(m.yearTo),

			huh.NewConfirm().
				Key("confirm").
				Title("Ready?").
				Affirmative("Apply").
				Negative(""),
		),
	).
		WithShowHelp(false).
		WithTheme(theme.HuhTheme(t))

	return m
}

// genreOptions collects the distinct genres present in the catalog.
func genreOptions(books []*book.Book) []string {
	genres := []string{}
	for _, b := range books {
		if b.Genre != "" && !slices.Contains(genres, b.Genre) {
			genres = append(genres, b.Genre)
		}
	}

	slices.Sort(genres)

	return append([]string{anyGenre}, genres...)
}

func validateYear(s string) error {
	if s == "" {
		return nil
	}

	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("%q is not a year", s)
	}

	return nil
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	return m, cmd
}

func (m Model) IsCompleted() bool {
	return m.form.State == huh.StateCompleted
}

func (m Model) IsAborted() bool {
	return m.form.State == huh.StateAborted
}

// Criteria is a structured catalog query.
type Criteria struct {
	Author   string // Case-insensitive substring of the author name.
	Genre    string // Exact genre, empty matches any.
	YearFrom int    // Inclusive, 0 means unbounded.
	YearTo   int    // Inclusive, 0 means unbounded.
}

// Apply returns the books matching every set criterion.
func (c Criteria) Apply(books []*book.Book) []*book.Book {
	matched := []*book.Book{}
	for _, b := range books {
		if c.Author != "" && !strings.Contains(strings.ToLower(b.Author), strings.ToLower(c.Author)) {
			continue
		}
		if c.Genre != "" && b.Genre != c.Genre {
			continue
		}
		if c.YearFrom != 0 && b.Year < c.YearFrom {
			continue
		}
		if c.YearTo != 0 && b.Year > c.YearTo {
			continue
		}

		matched = append(matched, b)
	}

	return matched
}

// String describes the query for the status bar.
func (c Criteria) String() string {
	parts := []string{}
	if c.Author != "" {
		parts = append(parts, fmt.Sprintf("author ~ %q", c.Author))
	}
	if c.Genre != "" {
		parts = append(parts, c.Genre)
	}

	switch {
	case c.YearFrom != 0 && c.YearTo != 0:
		parts = append(parts, fmt.Sprintf("%d-%d", c.YearFrom, c.YearTo))
	case c.YearFrom != 0:
		parts = append(parts, fmt.Sprintf("after %d", c.YearFrom))
	case c.YearTo != 0:
		parts = append(parts, fmt.Sprintf("before %d", c.YearTo))
	}

	if len(parts) == 0 {
		return "all books"
	}

	return xstrings.EnglishJoin(parts, true)
}

// Criteria reads the query out of the form.
func (m Model) Criteria() Criteria {
	genre := m.form.GetString("genre")
	if genre == anyGenre {
		genre = ""
	}

	return Criteria{
		Author:   strings.TrimSpace(m.form.GetString("author")),
		Genre:    genre,
		YearFrom: atoiOrZero(m.form.GetString("yearFrom")),
		YearTo:   atoiOrZero(m.form.GetString("yearTo")),
	}
}

// Result applies the form's criteria and returns the matching books along
// with a description of the query.
func (m Model) Result() ([]*book.Book, string) {
	c := m.Criteria()

	return c.Apply(m.books), c.String()
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}

	return n
}

func (m Model) View() string {
	if m.form.State == huh.StateCompleted {
		return ""
	}

	return lipgloss.NewStyle().
		Height(m.height).
		Padding(1, 2).
		Render(m.form.View())
}

func (m *Model) SetHeight(h int) {
	m.form.WithHeight(h - 2)

	m.height = h
}
