// Package browse implements the catalog list view.
//
// The model owns a [window.Window] over the active book sequence and renders
// only the pages that have been materialized so far. Fuzzy filtering, the
// filter form, and shelf selection all converge on the same sink: replace
// the window's backing sequence and load the first page again.
package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/ansi"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/foliolib/folio/pkg/book"
	"github.com/foliolib/folio/pkg/keys"
	"github.com/foliolib/folio/pkg/shelf"
	"github.com/foliolib/folio/pkg/ui/common"
	"github.com/foliolib/folio/pkg/ui/statusbar"
	"github.com/foliolib/folio/pkg/window"
)

const (
	browseIndent                = 1
	browseViewTopPadding        = 1 // Padding at the top of the browse view.
	browseViewBottomPadding     = 6 // Footer, pagination and gaps, but not help.
	browseViewHorizontalPadding = 6
)

type (
	// FilteredMsg carries the fuzzy filter results.
	FilteredMsg []*book.Book

	// OpenBookMsg requests the detail view for a book.
	OpenBookMsg *book.Book

	// ShowFilterFormMsg requests the filter form.
	ShowFilterFormMsg struct{}
)

// OpenBook commands the detail view to open for a book.
func OpenBook(b *book.Book) tea.Cmd {
	return func() tea.Msg {
		return OpenBookMsg(b)
	}
}

// FilterState is the current filtering state in the browse view.
type FilterState int

const (
	Unfiltered    FilterState = iota // No filter set.
	Filtering                        // User is actively setting a filter.
	FilterApplied                    // A filter is applied and user is not editing filter.
)

type Model struct {
	cm           *common.CommonModel
	helpRenderer *statusbar.HelpRenderer
	itemRenderer *itemRenderer
	keyHandler   *KeyHandler
	kb           *KeyBinds

	// The window over the active sequence. All data loading goes through
	// it; the view renders only the loaded prefix.
	win *window.Window[*book.Book]

	// The full catalog, in sort order.
	allBooks []*book.Book

	// The active base sequence: the full catalog, or the current shelf's
	// subset of it. The fuzzy filter narrows this base.
	books []*book.Book

	// Books materialized so far, the concatenation of the window's pages.
	loaded []*book.Book

	shelves    []*shelf.Shelf
	shelfIndex int // 0 means no shelf, 1..n selects shelves[n-1].

	filterInput textinput.Model
	FilterState FilterState

	paginator paginator.Model
	cursor    int
	sortBy    book.SortBy

	helpHeight int
	ShowHelp   bool
	compact    bool
}

type Config struct {
	CommonModel *common.CommonModel
	KeyBinds    *KeyBinds
	Shelves     []*shelf.Shelf
	PageSize    int
	Compact     bool
}

func NewModel(c Config) Model {
	si := textinput.New()
	si.Prompt = "Find:"
	si.PromptStyle = c.CommonModel.Theme.FilterStyle.MarginRight(1)
	si.Cursor.Style = c.CommonModel.Theme.CursorStyle.MarginRight(1)
	si.Focus()

	ckb := c.CommonModel.KeyBinds
	kb := c.KeyBinds
	kbr := &keys.KeyBindRenderer{}
	kbr.AddColumn(
		*ckb.Up,
		*ckb.Down,
		*ckb.Left,
		*ckb.Right,
		*kb.PageUp,
		*kb.PageDown,
	)
	kbr.AddColumn(
		*kb.Open,
		*kb.LoadMore,
		*kb.Find,
		*kb.FilterForm,
		*kb.Shelf,
		*kb.Sort,
	)
	kbr.AddColumn(
		*ckb.Reload,
		*kb.Edit,
		*ckb.ThemeToggle,
		*kb.Home,
		*kb.End,
	)
	kbr.AddColumn(
		*ckb.Escape,
		*ckb.Error,
		*ckb.Help,
		*ckb.Quit,
	)

	m := Model{
		cm:           c.CommonModel,
		kb:           kb,
		filterInput:  si,
		win:          window.New[*book.Book](nil, window.WithPageSize(c.PageSize)),
		shelves:      c.Shelves,
		sortBy:       book.SortByTitle,
		paginator:    newPaginator(c.CommonModel.Theme),
		helpRenderer: statusbar.NewHelpRenderer(c.CommonModel.Theme, kbr),
		itemRenderer: newItemRenderer(c.CommonModel.Theme, browseIndent, c.Compact),
		keyHandler:   NewKeyHandler(kb, ckb),
		compact:      c.Compact,
	}

	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	isFiltering := m.FilterState == Filtering

	if isFiltering {
		var cmd tea.Cmd

		m, cmd = m.keyHandler.HandleFilteringMode(m, msg)
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isFiltering {
			// Don't re-handle filter keys.
			break
		}

		var cmd tea.Cmd

		m, cmd = m.keyHandler.HandleBrowsing(m, msg)
		cmds = append(cmds, cmd)

	case FilteredMsg:
		cmds = append(cmds, m.replaceSequence(msg))

		return m, tea.Batch(cmds...)

	case common.ThemeChangedMsg:
		m.itemRenderer = newItemRenderer(msg.Theme, browseIndent, m.compact)
		m.paginator = restylePaginator(m.paginator, msg.Theme)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	top := lipgloss.JoinVertical(
		lipgloss.Top,
		m.headerView(),
		m.bookListView(),
	)
	availableHeight := m.cm.Height - lipgloss.Height(top)
	if !m.ShowHelp {
		availableHeight++
	}

	bottom := lipgloss.PlaceVertical(
		availableHeight,
		lipgloss.Bottom,
		lipgloss.JoinVertical(
			lipgloss.Top,
			lipgloss.PlaceHorizontal(
				m.cm.Width,
				lipgloss.Left,
				m.remainingView(),
			),
			lipgloss.PlaceHorizontal(
				m.cm.Width,
				lipgloss.Left,
				m.paginationView(),
			),
			m.statusBarView(),
			m.helpView(),
		),
	)

	return lipgloss.JoinVertical(lipgloss.Top, top, bottom)
}

// SetBooks replaces the full catalog, e.g. after a (re)load. Any shelf or
// filter is cleared and the first window page is loaded.
func (m *Model) SetBooks(books []*book.Book) tea.Cmd {
	m.allBooks = books
	book.Sort(m.allBooks, m.sortBy)

	m.shelfIndex = 0
	m.resetFilterState()
	m.books = m.allBooks

	return m.replaceSequence(m.books)
}

// ApplySequence swaps in an externally produced sequence, e.g. the filter
// form's results.
func (m *Model) ApplySequence(books []*book.Book) tea.Cmd {
	m.resetFilterState()
	m.FilterState = FilterApplied

	return m.replaceSequence(books)
}

// replaceSequence is the single sink for every re-browse path: it replaces
// the window's backing sequence and materializes the first page again.
func (m *Model) replaceSequence(seq []*book.Book) tea.Cmd {
	m.win.Replace(seq)

	first, _, err := m.win.LoadFirst()
	if err != nil {
		// Unreachable after Replace; never swallow it.
		return func() tea.Msg {
			return common.ErrMsg{Err: err}
		}
	}

	m.loaded = append([]*book.Book{}, first...)
	m.paginator.Page = 0
	m.setCursor(0)
	m.updatePagination()

	return nil
}

// loadMore materializes the next window page and appends it to the view. At
// exhaustion the affordance is gone and this is a no-op with a status note.
func (m Model) loadMore() (Model, tea.Cmd) {
	if !m.win.Loaded() {
		return m, nil
	}

	if m.win.Exhausted() {
		return m, m.cm.SendStatusMessage("everything is on display", statusbar.StyleNormal)
	}

	page, remaining, err := m.win.LoadNext()
	if err != nil {
		return m, func() tea.Msg {
			return common.ErrMsg{Err: err}
		}
	}

	m.loaded = append(m.loaded, page...)
	m.updatePagination()

	msg := fmt.Sprintf("loaded %d more", len(page))
	if remaining > 0 {
		msg = fmt.Sprintf("%s · %s remaining", msg, humanize.Comma(int64(remaining)))
	}

	return m, m.cm.SendStatusMessage(msg, statusbar.StyleSuccess)
}

// Books returns every book in the catalog, regardless of any active
// shelf or filter.
func (m Model) Books() []*book.Book {
	return m.allBooks
}

// Whether the user has loaded everything there is to load.
func (m Model) Exhausted() bool {
	return m.win.Exhausted()
}

func (m Model) FilterApplied() bool {
	return m.FilterState != Unfiltered
}

func (m *Model) SetSize(width, height int) {
	m.cm.Width = width
	m.cm.Height = height

	// Calculate help height if needed.
	if m.ShowHelp && m.helpHeight == 0 {
		m.helpHeight = m.helpRenderer.CalculateHelpHeight()
	}

	m.filterInput.Width = width - browseViewHorizontalPadding*2 - ansi.PrintableRuneWidth(
		m.filterInput.Prompt,
	)

	m.updatePagination()
}

func (m *Model) setCursor(i int) {
	m.cursor = i
}

func (m *Model) toggleHelp() {
	m.ShowHelp = !m.ShowHelp
	m.SetSize(m.cm.Width, m.cm.Height)
}

// ResetFiltering clears the fuzzy filter and restores the active base
// sequence.
func (m *Model) ResetFiltering() tea.Cmd {
	m.resetFilterState()

	return m.replaceSequence(m.books)
}

func (m *Model) resetFilterState() {
	m.FilterState = Unfiltered
	m.filterInput.Reset()
}

// cycleShelf advances to the next configured shelf, wrapping back to the
// full catalog after the last one.
func (m Model) cycleShelf() (Model, tea.Cmd) {
	if len(m.shelves) == 0 {
		return m, m.cm.SendStatusMessage("no shelves configured", statusbar.StyleNormal)
	}

	m.shelfIndex = (m.shelfIndex + 1) % (len(m.shelves) + 1)
	m.resetFilterState()

	var note string
	if m.shelfIndex == 0 {
		m.books = m.allBooks
		note = "all books"
	} else {
		s := m.shelves[m.shelfIndex-1]
		m.books = s.Filter(m.allBooks)
		note = fmt.Sprintf("shelf: %s", s.Name)
	}

	cmd := m.replaceSequence(m.books)

	return m, tea.Batch(cmd, m.cm.SendStatusMessage(note, statusbar.StyleNormal))
}

func (m Model) cycleSort() (Model, tea.Cmd) {
	switch m.sortBy {
	case book.SortByTitle:
		m.sortBy = book.SortByAuthor
	case book.SortByAuthor:
		m.sortBy = book.SortByYear
	default:
		m.sortBy = book.SortByTitle
	}

	book.Sort(m.allBooks, m.sortBy)
	book.Sort(m.books, m.sortBy)

	cmd := m.replaceSequence(m.books)

	return m, tea.Batch(cmd, m.cm.SendStatusMessage(
		fmt.Sprintf("sort: %s", m.sortBy),
		statusbar.StyleNormal,
	))
}

// SortedBy returns the active sort order.
func (m Model) SortedBy() book.SortBy {
	return m.sortBy
}

// Update pagination according to the loaded prefix and current size.
func (m *Model) updatePagination() {
	helpHeight := 0
	if m.ShowHelp {
		helpHeight = m.helpHeight + 1
	}

	availableHeight := m.cm.Height -
		helpHeight -
		browseViewTopPadding -
		browseViewBottomPadding

	if !m.compact {
		availableHeight++
	}

	m.paginator.PerPage = max(1, availableHeight/m.itemRenderer.itemHeight())

	if count := len(m.loaded); count < 1 {
		m.paginator.SetTotalPages(1)
	} else {
		m.paginator.SetTotalPages(count)
	}

	// Make sure the page stays in bounds.
	if m.paginator.Page >= m.paginator.TotalPages-1 {
		m.paginator.Page = max(0, m.paginator.TotalPages-1)
	}
}

// bookIndex returns the index of the currently selected item within the
// loaded prefix.
func (m Model) bookIndex() int {
	return m.paginator.Page*m.paginator.PerPage + m.cursor
}

// selectedBook returns the currently selected book, if any.
func (m Model) selectedBook() *book.Book {
	i := m.bookIndex()
	if i < 0 || len(m.loaded) == 0 || len(m.loaded) <= i {
		return nil
	}

	return m.loaded[i]
}

func (m *Model) itemsOnPage() int {
	return m.paginator.ItemsOnPage(len(m.loaded))
}

func (m *Model) moveCursorUp() {
	m.setCursor(m.cursor - 1)
	if m.cursor < 0 && m.paginator.Page == 0 {
		// Stop.
		m.setCursor(0)

		return
	}

	if m.cursor >= 0 {
		return
	}

	// Go to previous page.
	m.paginator.PrevPage()

	m.setCursor(m.itemsOnPage() - 1)
}

func (m Model) moveCursorDown() (Model, tea.Cmd) {
	itemsOnPage := m.itemsOnPage()

	m.setCursor(m.cursor + 1)
	if m.cursor < itemsOnPage {
		return m, nil
	}

	if !m.paginator.OnLastPage() {
		m.paginator.NextPage()
		m.setCursor(0)

		return m, nil
	}

	// Advancing past the last loaded row pulls the next window page in.
	if !m.win.Exhausted() {
		m.setCursor(itemsOnPage - 1)

		return m.loadMore()
	}

	// During filtering the cursor position can exceed the number of
	// itemsOnPage. It's more intuitive to start the cursor at the topmost
	// position when moving it down in this scenario.
	if m.cursor > itemsOnPage {
		m.setCursor(0)

		return m, nil
	}

	m.setCursor(itemsOnPage - 1)

	return m, nil
}

func (m *Model) enforcePaginationBounds() {
	itemsOnPage := m.itemsOnPage()
	if m.cursor > itemsOnPage-1 {
		m.setCursor(max(0, itemsOnPage-1))
	}
}

func (m Model) bookListView() string {
	return m.itemRenderer.renderList(m.loaded, m)
}

func (m Model) remainingView() string {
	if !m.win.Loaded() || m.win.Exhausted() {
		return ""
	}

	remaining := m.win.Remaining()

	return lipgloss.NewStyle().PaddingLeft(browseIndent + 2).Render(
		m.cm.Theme.SubtleStyle.Render(fmt.Sprintf(
			"%s more · press %s",
			humanize.Comma(int64(remaining)),
			m.kb.LoadMore.String(),
		)),
	)
}

func (m Model) paginationView() string {
	pagination := "\n"
	if m.paginator.TotalPages > 1 {
		pagination = newPaginationRenderer(m.cm.Theme, m.cm.Width).
			render(&m.paginator)
	}

	return pagination
}

func (m Model) helpView() string {
	var help string
	if m.ShowHelp {
		help = m.helpRenderer.Render(m.cm.Width)
	}

	return help
}

func (m Model) headerView() string {
	sections, divider := m.getHeaderSections()
	header := strings.Join(sections, divider.String())

	header = lipgloss.NewStyle().
		Padding(browseViewTopPadding, browseIndent+2, 1).
		Render(header)

	return header
}

func (m Model) getHeaderSections() ([]string, lipgloss.Style) {
	sections := []string{}

	var (
		dividerDot = m.cm.Theme.SubtleStyle.SetString(" • ")
		dividerBar = m.cm.Theme.SubtleStyle.SetString(" │ ")
	)

	if m.FilterState == Filtering {
		sections = append(sections, m.cm.Theme.GenericTextStyle.Render(m.filterInput.View()))

		return sections, dividerDot
	}

	total := fmt.Sprintf("%d books", len(m.allBooks))
	if m.shelfIndex > 0 {
		sections = append(sections,
			m.cm.Theme.SubtleStyle.Render(total),
			m.cm.Theme.SelectedStyle.Render(fmt.Sprintf(
				"%d on %q", m.win.Len(), m.shelves[m.shelfIndex-1].Name,
			)),
		)

		return sections, dividerBar
	}

	if m.FilterState == FilterApplied && m.filterInput.Value() != "" {
		sections = append(sections,
			m.cm.Theme.SubtleStyle.Render(total),
			m.cm.Theme.SelectedStyle.Render(fmt.Sprintf(
				"%d “%s”", m.win.Len(), m.filterInput.Value(),
			)),
		)

		return sections, dividerBar
	}

	sections = append(sections, m.cm.Theme.SubtleStyle.Render(total))

	return sections, dividerBar
}

func (m Model) statusBarView() string {
	title := m.cm.Source.String()

	// Show progress as loaded out of total for the active sequence.
	progress := fmt.Sprintf("%s/%s",
		humanize.Comma(int64(len(m.loaded))),
		humanize.Comma(int64(m.win.Len())),
	)

	return m.cm.GetStatusBar().RenderWithNote(title, progress)
}

// startFiltering initializes the filtering mode.
func (m *Model) startFiltering() tea.Cmd {
	m.paginator.Page = 0
	m.setCursor(0)

	m.FilterState = Filtering
	m.filterInput.CursorEnd()
	m.filterInput.Focus()

	return textinput.Blink
}
