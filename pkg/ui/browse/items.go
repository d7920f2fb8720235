package browse

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"

	"github.com/foliolib/folio/pkg/book"
	"github.com/foliolib/folio/pkg/ui/theme"
)

// itemRenderer renders the visible page of books.
type itemRenderer struct {
	theme   *theme.Theme
	indent  int
	compact bool
}

func newItemRenderer(t *theme.Theme, indent int, compact bool) *itemRenderer {
	return &itemRenderer{theme: t, indent: indent, compact: compact}
}

func (ir *itemRenderer) itemHeight() int {
	if ir.compact {
		return 1 // Compact mode uses a single line per book.
	}

	return 3
}

// renderList renders the current page of loaded books, with empty states.
func (ir *itemRenderer) renderList(books []*book.Book, m Model) string {
	var b strings.Builder

	if len(books) == 0 {
		f := func(s string) {
			b.WriteString("  " + ir.theme.SubtleStyle.Render(s))
		}

		switch {
		case m.FilterState == Filtering:
			f("No results.")
		case m.cm.Loaded:
			f("Nothing to see here.")
		default:
			f("Loading catalog...")
		}
	}

	if len(books) > 0 {
		start, end := m.paginator.GetSliceBounds(len(books))
		pageItems := books[start:end]

		for i, bk := range pageItems {
			ir.itemView(&b, m, i, bk)
			if i != len(pageItems)-1 {
				b.WriteString("\n")
				if !ir.compact {
					b.WriteString("\n")
				}
			}
		}
	}

	return indent(b.String(), ir.indent)
}

// itemDisplayState represents the visual state of a list item.
type itemDisplayState struct {
	gutter string
	title  string
	desc   string
}

func (ir *itemRenderer) itemView(b *strings.Builder, m Model, index int, bk *book.Book) {
	var (
		truncateTo = uint(max(0, m.cm.Width-browseViewHorizontalPadding*2)) //nolint:gosec // Uses max.

		title = truncate.StringWithTail(bk.Title, truncateTo, ir.theme.Ellipsis)
		desc  = truncate.StringWithTail(bookDesc(bk), truncateTo, ir.theme.Ellipsis)

		isSelected      = index == m.cursor
		isFiltering     = m.FilterState == Filtering
		isFilterApplied = m.FilterState == FilterApplied
		singleMatch     = isFiltering && len(m.loaded) == 1
		filterValue     = m.filterInput.Value()

		// If there are multiple items being filtered don't highlight a
		// selected item in the results. If we've filtered down to one item,
		// however, highlight that first item since pressing return will
		// open it.
		shouldHighlight  = (isSelected && !isFiltering) || singleMatch
		shouldShowFilter = isFilterApplied || singleMatch
	)

	var state itemDisplayState
	if shouldHighlight {
		state = ir.selectedStyling(title, desc, shouldShowFilter, filterValue)
	} else {
		state = ir.unselectedStyling(title, desc, isFiltering, filterValue)
	}

	if ir.compact {
		fmt.Fprintf(b, "%s %s  %s", state.gutter, state.title, state.desc)

		return
	}

	fmt.Fprintf(b, "%s %s\n", state.gutter, state.title)
	fmt.Fprintf(b, "%s %s", state.gutter, state.desc)
}

// bookDesc builds the secondary line for a book item.
func bookDesc(bk *book.Book) string {
	parts := []string{bk.Author}
	if bk.Genre != "" {
		parts = append(parts, bk.Genre)
	}

	if bk.Year != 0 {
		parts = append(parts, fmt.Sprintf("%d", bk.Year))
	}

	return strings.Join(parts, " · ")
}

func (ir *itemRenderer) selectedStyling(title, desc string, showFilter bool, filterValue string) itemDisplayState {
	t := ir.theme

	state := itemDisplayState{
		gutter: t.SelectedStyle.Render("│"),
	}

	if showFilter {
		state.title = styleFilteredText(title, filterValue, t.SelectedStyle, t.SelectedStyle.Underline(true))
		state.desc = styleFilteredText(desc, filterValue, t.SelectedSubtleStyle, t.SelectedSubtleStyle.Underline(true))
	} else {
		state.title = t.SelectedStyle.Render(title)
		state.desc = t.SelectedSubtleStyle.Render(desc)
	}

	return state
}

func (ir *itemRenderer) unselectedStyling(title, desc string, isFiltering bool, filterValue string) itemDisplayState {
	t := ir.theme
	hasEmptyFilter := isFiltering && filterValue == ""

	state := itemDisplayState{
		gutter: " ",
	}

	if hasEmptyFilter {
		// Dimmed styling when filtering with empty input.
		state.title = t.SubtleStyle.Render(title)
		state.desc = t.SubtleStyle.Render(desc)
	} else {
		state.title = styleFilteredText(title, filterValue, t.GenericTextStyle, t.GenericTextStyle.Underline(true))
		state.desc = styleFilteredText(desc, filterValue, t.SubtleStyle, t.SubtleStyle.Underline(true))
	}

	return state
}

func styleFilteredText(haystack, needles string, defaultStyle, matchedStyle lipgloss.Style) string {
	b := strings.Builder{}

	normalizedHay, err := book.Normalize(haystack)
	if err != nil {
		slog.Error("error normalizing",
			slog.String("haystack", haystack),
			slog.Any("error", err),
		)
	}

	matches := fuzzy.Find(needles, []string{normalizedHay})
	if len(matches) == 0 {
		return defaultStyle.Render(haystack)
	}

	m := matches[0] // Only one match exists.
	for i, r := range []rune(haystack) {
		styled := false
		for _, mi := range m.MatchedIndexes {
			if i == mi {
				b.WriteString(matchedStyle.Render(string(r)))
				styled = true
			}
		}
		if !styled {
			b.WriteString(defaultStyle.Render(string(r)))
		}
	}

	return b.String()
}

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}

	return b.String()
}
