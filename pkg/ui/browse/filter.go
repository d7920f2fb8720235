package browse

import (
	"sort"

	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/foliolib/folio/pkg/book"
)

// FilterBooks fuzzy-matches value against the filter values of books and
// returns the ranked results as a [FilteredMsg].
func FilterBooks(value string, books []*book.Book) tea.Cmd {
	return func() tea.Msg {
		if value == "" {
			return FilteredMsg(books) // Return everything.
		}

		targets := []string{}
		for _, b := range books {
			targets = append(targets, b.FilterValue())
		}

		ranks := fuzzy.Find(value, targets)
		sort.Stable(ranks)

		filtered := []*book.Book{}
		for _, r := range ranks {
			filtered = append(filtered, books[r.Index])
		}

		return FilteredMsg(filtered)
	}
}
