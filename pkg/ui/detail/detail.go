// Package detail implements the single-book view: styled metadata with the
// description and excerpt, a raw YAML toggle, content search, and citation
// copy.
package detail

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/foliolib/folio/pkg/book"
	"github.com/foliolib/folio/pkg/keys"
	"github.com/foliolib/folio/pkg/ui/common"
	"github.com/foliolib/folio/pkg/ui/record"
	"github.com/foliolib/folio/pkg/ui/statusbar"
	"github.com/foliolib/folio/pkg/ui/theme"
	"github.com/foliolib/folio/pkg/yaml"
)

const (
	statusBarHeight = 1
	headerHeight    = 3
)

// ContentRenderedMsg carries freshly rendered viewport content.
type ContentRenderedMsg string

type Model struct {
	cm           *common.CommonModel
	helpRenderer *statusbar.HelpRenderer
	keyHandler   *KeyHandler
	kb           *KeyBinds

	// Renderer for the prose body: search highlights only, no syntax
	// coloring and no gutter.
	proseRenderer *record.ChromaRenderer

	// Renderer for the raw YAML body.
	rawRenderer *record.ChromaRenderer

	// Tracks raw revisions across catalog reloads so the raw view can
	// highlight what changed.
	differ *record.Differ

	// The book on display.
	Book *book.Book

	viewport    viewport.Model
	searchInput textinput.Model

	searching  bool
	searchTerm string
	matchIndex int
	showRaw    bool

	helpHeight int
	ShowHelp   bool
}

func NewModel(cm *common.CommonModel, kb *KeyBinds) Model {
	vp := viewport.New(0, 0)
	vp.YPosition = 0

	si := textinput.New()
	si.Prompt = "Search:"
	si.PromptStyle = cm.Theme.FilterStyle.MarginRight(1)
	si.Cursor.Style = cm.Theme.CursorStyle.MarginRight(1)

	kbr := &keys.KeyBindRenderer{}
	kbr.AddColumn(
		*cm.KeyBinds.Up,
		*cm.KeyBinds.Down,
		*kb.PageUp,
		*kb.PageDown,
		*kb.HalfPageUp,
		*kb.HalfPageDown,
	)
	kbr.AddColumn(
		*kb.Home,
		*kb.End,
		*kb.Search,
		*kb.NextMatch,
		*kb.PrevMatch,
	)
	kbr.AddColumn(
		*kb.Copy,
		*kb.Raw,
		*cm.KeyBinds.Reload,
		*cm.KeyBinds.Escape,
		*cm.KeyBinds.Quit,
	)

	m := Model{
		cm:           cm,
		kb:           kb,
		keyHandler:   NewKeyHandler(kb, cm.KeyBinds),
		helpRenderer: statusbar.NewHelpRenderer(cm.Theme, kbr),
		viewport:     vp,
		searchInput:  si,
		differ:       record.NewDiffer(),
		matchIndex:   -1,
	}
	m.buildRenderers(cm.Theme)

	return m
}

func (m *Model) buildRenderers(t *theme.Theme) {
	m.proseRenderer = record.NewChromaRenderer(t, record.WithoutLineNumbers())
	m.proseRenderer.SetFormatter("noop")
	m.rawRenderer = record.NewChromaRenderer(t)
}

// SetBook loads a book into the view and resets transient state.
func (m *Model) SetBook(b *book.Book) tea.Cmd {
	m.Book = b
	m.showRaw = false
	m.clearSearchState()
	m.resetDiffState(b)
	m.viewport.SetContent("")
	m.viewport.YOffset = 0

	return m.renderContent()
}

// Refresh swaps in a new revision of the displayed book after a catalog
// reload, keeping scroll and search state and marking changed positions in
// the raw view.
func (m *Model) Refresh(b *book.Book) tea.Cmd {
	m.Book = b

	raw, err := yaml.Marshal(b)
	if err != nil {
		return func() tea.Msg {
			return common.ErrMsg{Err: fmt.Errorf("marshal book: %w", err)}
		}
	}

	m.rawRenderer.SetDiffs(m.differ.FindAndCacheDiffs(string(raw)))

	return m.renderContent()
}

// resetDiffState pins the diff baseline to a book's current raw form.
func (m *Model) resetDiffState(b *book.Book) {
	m.differ.ClearDiffs()
	m.rawRenderer.ClearDiffs()

	if b == nil {
		m.differ.SetOriginalContent("")

		return
	}

	if raw, err := yaml.Marshal(b); err == nil {
		m.differ.SetOriginalContent(string(raw))
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.searching {
		var cmd tea.Cmd

		m, cmd = m.keyHandler.HandleSearchMode(m, msg)
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			// Typed keys feed the search input only.
			return m, tea.Batch(cmds...)
		}

		var cmd tea.Cmd

		m, cmd = m.keyHandler.HandleDetailKeys(m, msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)

	case ContentRenderedMsg:
		m.viewport.SetContent(string(msg))

	case common.ThemeChangedMsg:
		m.buildRenderers(msg.Theme)
		cmds = append(cmds, m.renderContent())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Top,
		m.headerView(),
		m.viewport.View(),
		m.statusBarView(),
		m.helpView(),
	)
}

func (m *Model) SetSize(w, h int) {
	viewportHeight := h - statusBarHeight - headerHeight

	if m.ShowHelp {
		if m.helpHeight == 0 {
			m.helpHeight = m.helpRenderer.CalculateHelpHeight()
		}
		viewportHeight -= statusBarHeight + m.helpHeight
	}

	m.viewport.Width = w
	m.viewport.Height = max(0, viewportHeight)
	m.searchInput.Width = w / 2
}

// Searching reports whether the search input is focused.
func (m Model) Searching() bool {
	return m.searching
}

// Unload resets the view before returning to the catalog.
func (m *Model) Unload() {
	if m.ShowHelp {
		m.toggleHelp()
	}

	m.Book = nil
	m.showRaw = false
	m.clearSearchState()
	m.resetDiffState(nil)
	m.viewport.SetContent("")
	m.viewport.YOffset = 0
}

func (m *Model) toggleHelp() {
	m.ShowHelp = !m.ShowHelp
	m.SetSize(m.cm.Width, m.cm.Height)

	if m.viewport.PastBottom() {
		m.viewport.GotoBottom()
	}
}

// toggleRaw switches between the prose view and the raw YAML document.
func (m *Model) toggleRaw() tea.Cmd {
	m.showRaw = !m.showRaw
	m.viewport.YOffset = 0

	return m.renderContent()
}

// copyCitation copies the book's citation to the clipboard.
func (m *Model) copyCitation() tea.Cmd {
	if m.Book == nil {
		return nil
	}

	citation := m.Book.Citation()

	// Copy using OSC 52.
	termenv.Copy(citation)
	// Copy using native system clipboard.
	_ = clipboard.WriteAll(citation) //nolint:errcheck // Can be ignored.

	return m.cm.SendStatusMessage("copied citation", statusbar.StyleSuccess)
}

func (m *Model) startSearch() tea.Cmd {
	m.searching = true
	m.searchInput.SetValue(m.searchTerm)
	m.searchInput.CursorEnd()

	return m.searchInput.Focus()
}

func (m *Model) applySearch() tea.Cmd {
	m.searching = false
	m.searchInput.Blur()
	m.searchTerm = m.searchInput.Value()

	if m.searchTerm == "" {
		return m.clearSearch()
	}

	r := m.activeRenderer()
	r.SetSearchTerm(m.searchTerm)
	m.matchIndex = -1

	return m.renderContent()
}

func (m *Model) clearSearch() tea.Cmd {
	m.clearSearchState()

	return m.renderContent()
}

func (m *Model) clearSearchState() {
	m.searching = false
	m.searchTerm = ""
	m.matchIndex = -1
	m.searchInput.Reset()
	m.proseRenderer.SetSearchTerm("")
	m.rawRenderer.SetSearchTerm("")
}

func (m *Model) nextMatch() tea.Cmd {
	return m.moveMatch(1)
}

func (m *Model) prevMatch() tea.Cmd {
	return m.moveMatch(-1)
}

func (m *Model) moveMatch(delta int) tea.Cmd {
	r := m.activeRenderer()

	matches := r.GetMatches()
	if len(matches) == 0 {
		return m.cm.SendStatusMessage("no matches", statusbar.StyleNormal)
	}

	m.matchIndex = (m.matchIndex + delta + len(matches)) % len(matches)
	r.SetSelectedMatch(m.matchIndex)

	m.scrollToLine(matches[m.matchIndex].Line)

	return tea.Batch(
		m.renderContent(),
		m.cm.SendStatusMessage(
			fmt.Sprintf("match %d/%d", m.matchIndex+1, len(matches)),
			statusbar.StyleNormal,
		),
	)
}

// scrollToLine centers the viewport on a content line, if it is off-screen.
func (m *Model) scrollToLine(line int) {
	if line >= m.viewport.YOffset && line < m.viewport.YOffset+m.viewport.Height {
		return
	}

	m.viewport.SetYOffset(max(0, line-m.viewport.Height/2))
}

func (m *Model) activeRenderer() *record.ChromaRenderer {
	if m.showRaw {
		return m.rawRenderer
	}

	return m.proseRenderer
}

// renderContent renders the current body through the active renderer.
func (m Model) renderContent() tea.Cmd {
	if m.Book == nil {
		return nil
	}

	b := m.Book
	showRaw := m.showRaw
	width := m.viewport.Width
	r := m.activeRenderer()

	return func() tea.Msg {
		var body string
		if showRaw {
			raw, err := yaml.Marshal(b)
			if err != nil {
				return common.ErrMsg{Err: fmt.Errorf("marshal book: %w", err)}
			}
			body = string(raw)
		} else {
			body = proseBody(b)
		}

		s, err := r.RenderContent(body, width)
		if err != nil {
			return common.ErrMsg{Err: err}
		}

		return ContentRenderedMsg(s)
	}
}

// proseBody builds the plain-text body for the prose view. Styling stays out
// of the body so search match positions line up with what is on screen.
func proseBody(b *book.Book) string {
	var s strings.Builder

	meta := []string{}
	if b.Genre != "" {
		meta = append(meta, b.Genre)
	}
	if b.Language != "" {
		meta = append(meta, b.Language)
	}
	if b.Pages > 0 {
		meta = append(meta, fmt.Sprintf("%s pages", humanize.Comma(int64(b.Pages))))
	}
	if b.Rating > 0 {
		meta = append(meta, fmt.Sprintf("rated %.1f", b.Rating))
	}

	if len(meta) > 0 {
		s.WriteString(strings.Join(meta, " · "))
		s.WriteString("\n\n")
	}

	if b.Description != "" {
		s.WriteString(b.Description)
		s.WriteString("\n")
	}

	if b.Excerpt != "" {
		s.WriteString("\n")
		for line := range strings.SplitSeq(strings.TrimRight(b.Excerpt, "\n"), "\n") {
			s.WriteString("  " + line + "\n")
		}
	}

	if len(b.Tags) > 0 {
		s.WriteString("\n")
		s.WriteString(strings.Join(b.Tags, ", "))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(b.Citation())
	s.WriteString("\n")

	return s.String()
}

func (m Model) headerView() string {
	if m.Book == nil {
		return strings.Repeat("\n", headerHeight-1)
	}

	t := m.cm.Theme

	title := t.ResultTitleStyle.Render(m.Book.Title)

	byline := m.Book.Author
	if m.Book.Year != 0 {
		byline = fmt.Sprintf("%s · %d", byline, m.Book.Year)
	}
	if m.showRaw {
		byline += t.SubtleStyle.Render("  (raw)")
	}

	return lipgloss.NewStyle().
		Padding(1, 2, 0).
		Render(title + "\n" + t.GenericTextStyle.Render(byline))
}

func (m Model) statusBarView() string {
	if m.searching {
		return m.cm.GetStatusBar().RenderWithNote(m.searchInput.View(), "")
	}

	title := ""
	if m.Book != nil {
		title = m.Book.Title
	}

	return m.cm.GetStatusBar().RenderWithScroll(title, m.viewport.ScrollPercent())
}

func (m Model) helpView() string {
	var help string
	if m.ShowHelp {
		help = m.helpRenderer.Render(m.cm.Width)
	}

	return help
}
