package browse

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/foliolib/folio/pkg/keys"
	"github.com/foliolib/folio/pkg/ui/common"
)

type KeyBinds struct {
	Open       *keys.KeyBind `json:"open,omitempty"`
	Find       *keys.KeyBind `json:"find,omitempty"`
	FilterForm *keys.KeyBind `json:"filterForm,omitempty"`
	Shelf      *keys.KeyBind `json:"shelf,omitempty"`
	LoadMore   *keys.KeyBind `json:"loadMore,omitempty"`
	Sort       *keys.KeyBind `json:"sort,omitempty"`
	Edit       *keys.KeyBind `json:"edit,omitempty"`
	Home       *keys.KeyBind `json:"home,omitempty"`
	End        *keys.KeyBind `json:"end,omitempty"`
	PageUp     *keys.KeyBind `json:"pageUp,omitempty"`
	PageDown   *keys.KeyBind `json:"pageDown,omitempty"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Open,
		keys.NewBind("open book",
			keys.New("enter", keys.WithAlias("↵")),
		))
	keys.SetDefaultBind(&kb.Find,
		keys.NewBind("find",
			keys.New("/"),
		))
	keys.SetDefaultBind(&kb.FilterForm,
		keys.NewBind("filter form",
			keys.New("f"),
		))
	keys.SetDefaultBind(&kb.Shelf,
		keys.NewBind("next shelf",
			keys.New("tab"),
		))
	keys.SetDefaultBind(&kb.LoadMore,
		keys.NewBind("load more",
			keys.New("m"),
		))
	keys.SetDefaultBind(&kb.Sort,
		keys.NewBind("cycle sort",
			keys.New("s"),
		))
	keys.SetDefaultBind(&kb.Edit,
		keys.NewBind("edit catalog",
			keys.New("e"),
		))
	keys.SetDefaultBind(&kb.Home,
		keys.NewBind("go to start",
			keys.New("home"),
			keys.New("g"),
		))
	keys.SetDefaultBind(&kb.End,
		keys.NewBind("go to end",
			keys.New("end"),
			keys.New("G"),
		))
	keys.SetDefaultBind(&kb.PageUp,
		keys.NewBind("page up",
			keys.New("pgup"),
			keys.New("b"),
		))
	keys.SetDefaultBind(&kb.PageDown,
		keys.NewBind("page down",
			keys.New("pgdown", keys.WithAlias("pgdn")),
			keys.New("d"),
		))
}

func (kb *KeyBinds) GetKeyBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.Open,
		*kb.Find,
		*kb.FilterForm,
		*kb.Shelf,
		*kb.LoadMore,
		*kb.Sort,
		*kb.Edit,
		*kb.Home,
		*kb.End,
		*kb.PageUp,
		*kb.PageDown,
	}
}

// KeyHandler provides key handling for the browse view.
type KeyHandler struct {
	kb  *KeyBinds
	ckb *common.KeyBinds
}

// NewKeyHandler creates a new browse key handler.
func NewKeyHandler(kb *KeyBinds, ckb *common.KeyBinds) *KeyHandler {
	return &KeyHandler{
		kb:  kb,
		ckb: ckb,
	}
}

// HandleBrowsing handles key events while browsing the catalog.
func (h *KeyHandler) HandleBrowsing(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()

	switch {
	case h.ckb.Up.Match(key):
		m.moveCursorUp()

	case h.ckb.Down.Match(key):
		return m.moveCursorDown()

	case h.kb.PageUp.Match(key):
		m.setCursor(0)

	case h.kb.PageDown.Match(key):
		m.setCursor(m.itemsOnPage() - 1)

	case h.ckb.Left.Match(key), h.ckb.Prev.Match(key):
		m.paginator.PrevPage()
		m.enforcePaginationBounds()

	case h.ckb.Right.Match(key), h.ckb.Next.Match(key):
		if m.paginator.OnLastPage() {
			// Advancing past the last display page pulls the next window
			// page into view, if one remains.
			return m.loadMore()
		}

		m.paginator.NextPage()
		m.enforcePaginationBounds()

	case h.kb.Home.Match(key):
		m.paginator.Page = 0
		m.setCursor(0)

	case h.kb.End.Match(key):
		m.paginator.Page = m.paginator.TotalPages - 1
		m.setCursor(m.itemsOnPage() - 1)

	case h.kb.LoadMore.Match(key):
		return m.loadMore()

	case h.kb.Open.Match(key):
		if b := m.selectedBook(); b != nil {
			return m, OpenBook(b)
		}

	case h.kb.Find.Match(key):
		return m, m.startFiltering()

	case h.kb.FilterForm.Match(key):
		return m, func() tea.Msg { return ShowFilterFormMsg{} }

	case h.kb.Shelf.Match(key):
		return m.cycleShelf()

	case h.kb.Sort.Match(key):
		return m.cycleSort()

	case h.ckb.Help.Match(key):
		m.toggleHelp()
	}

	return m, nil
}

// HandleFilteringMode handles events while the user is typing a filter.
func (h *KeyHandler) HandleFilteringMode(m Model, msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		var cmd tea.Cmd

		m, cmd = h.handleFilterKeys(m, keyMsg.String())
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	m, inputCmd := h.updateFilterInput(m, msg)
	cmds = append(cmds, inputCmd)

	m.updatePagination()

	return m, tea.Batch(cmds...)
}

func (h *KeyHandler) handleFilterKeys(m Model, key string) (Model, tea.Cmd) {
	switch {
	case h.ckb.Up.Match(key),
		h.ckb.Down.Match(key),
		h.kb.Open.Match(key):
		// Apply the filter.
		if len(m.books) == 0 {
			return m, nil
		}

		// If we've filtered down to nothing, clear the filter.
		if m.win.Len() == 0 || m.filterInput.Value() == "" {
			return m, m.ResetFiltering()
		}

		// With a single match left, open it directly.
		if m.win.Len() == 1 {
			b := m.loaded[0]
			cmd := m.ResetFiltering()

			return m, tea.Batch(cmd, OpenBook(b))
		}

		m.filterInput.Blur()
		m.FilterState = FilterApplied
	}

	return m, nil
}

func (h *KeyHandler) updateFilterInput(m Model, msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	newFilterInput, inputCmd := m.filterInput.Update(msg)
	currentVal := m.filterInput.Value()
	newVal := newFilterInput.Value()
	m.filterInput = newFilterInput
	cmds = append(cmds, inputCmd)

	// If the filter input has changed, request updated filtering.
	if newVal != currentVal {
		cmds = append(cmds, FilterBooks(newVal, m.books))
	}

	return m, tea.Batch(cmds...)
}
