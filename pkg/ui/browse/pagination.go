package browse

import (
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/muesli/reflow/ansi"

	"github.com/foliolib/folio/pkg/ui/theme"
)

func newPaginator(t *theme.Theme) paginator.Model {
	p := paginator.New()
	p.Type = paginator.Dots
	p.ActiveDot = t.SelectedStyle.Render("•")
	p.InactiveDot = t.SubtleStyle.Render("◦")
	p.KeyMap = paginator.KeyMap{}

	return p
}

func restylePaginator(p paginator.Model, t *theme.Theme) paginator.Model {
	p.ActiveDot = t.SelectedStyle.Render("•")
	p.InactiveDot = t.SubtleStyle.Render("◦")

	return p
}

// paginationRenderer handles pagination display.
type paginationRenderer struct {
	theme *theme.Theme
	width int
}

func newPaginationRenderer(t *theme.Theme, width int) *paginationRenderer {
	return &paginationRenderer{theme: t, width: width}
}

func (pr *paginationRenderer) render(p *paginator.Model) string {
	pagination := p.View()

	// If the dot pagination is wider than available space, use arabic
	// numerals.
	availableWidth := pr.width - browseViewHorizontalPadding
	if ansi.PrintableRuneWidth(pagination) > availableWidth {
		// Create a copy to avoid mutating the original.
		c := *p
		c.Type = paginator.Arabic
		pagination = c.View()
	}

	return pr.theme.PaginationStyle.
		PaddingLeft(2).
		PaddingBottom(1).
		Render(pagination)
}
