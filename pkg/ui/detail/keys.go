package detail

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/foliolib/folio/pkg/keys"
	"github.com/foliolib/folio/pkg/ui/common"
)

type KeyBinds struct {
	Copy *keys.KeyBind `json:"copy,omitempty"`
	Raw  *keys.KeyBind `json:"raw,omitempty"`

	// Navigation.
	Home         *keys.KeyBind `json:"home,omitempty"`
	End          *keys.KeyBind `json:"end,omitempty"`
	PageUp       *keys.KeyBind `json:"pageUp,omitempty"`
	PageDown     *keys.KeyBind `json:"pageDown,omitempty"`
	HalfPageUp   *keys.KeyBind `json:"halfPageUp,omitempty"`
	HalfPageDown *keys.KeyBind `json:"halfPageDown,omitempty"`

	// Search.
	Search    *keys.KeyBind `json:"search,omitempty"`
	NextMatch *keys.KeyBind `json:"nextMatch,omitempty"`
	PrevMatch *keys.KeyBind `json:"prevMatch,omitempty"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Copy,
		keys.NewBind("copy citation",
			keys.New("y"),
		))
	keys.SetDefaultBind(&kb.Raw,
		keys.NewBind("toggle raw view",
			keys.New("v"),
		))
	keys.SetDefaultBind(&kb.Home,
		keys.NewBind("go to top",
			keys.New("home"),
			keys.New("g"),
		))
	keys.SetDefaultBind(&kb.End,
		keys.NewBind("go to bottom",
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
			keys.New("f"),
		))
	keys.SetDefaultBind(&kb.HalfPageUp,
		keys.NewBind("½ page up",
			keys.New("u"),
		))
	keys.SetDefaultBind(&kb.HalfPageDown,
		keys.NewBind("½ page down",
			keys.New("d"),
		))
	keys.SetDefaultBind(&kb.Search,
		keys.NewBind("search content",
			keys.New("/"),
		))
	keys.SetDefaultBind(&kb.NextMatch,
		keys.NewBind("next match",
			keys.New("n"),
		))
	keys.SetDefaultBind(&kb.PrevMatch,
		keys.NewBind("previous match",
			keys.New("N"),
		))
}

func (kb *KeyBinds) GetKeyBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.Copy,
		*kb.Raw,
		*kb.Home,
		*kb.End,
		*kb.PageUp,
		*kb.PageDown,
		*kb.HalfPageUp,
		*kb.HalfPageDown,
		*kb.Search,
		*kb.NextMatch,
		*kb.PrevMatch,
	}
}

// KeyHandler provides key handling for the detail view.
type KeyHandler struct {
	kb  *KeyBinds
	ckb *common.KeyBinds
}

// NewKeyHandler creates a new detail key handler.
func NewKeyHandler(kb *KeyBinds, ckb *common.KeyBinds) *KeyHandler {
	return &KeyHandler{
		kb:  kb,
		ckb: ckb,
	}
}

// HandleDetailKeys handles key events for the detail view.
func (h *KeyHandler) HandleDetailKeys(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	key := msg.String()

	switch {
	case h.kb.Home.Match(key):
		m.viewport.GotoTop()

	case h.kb.End.Match(key):
		m.viewport.GotoBottom()

	case h.kb.PageUp.Match(key):
		m.viewport.PageUp()

	case h.kb.PageDown.Match(key):
		m.viewport.PageDown()

	case h.kb.HalfPageDown.Match(key):
		m.viewport.HalfPageDown()

	case h.kb.HalfPageUp.Match(key):
		m.viewport.HalfPageUp()

	case h.ckb.Up.Match(key):
		m.viewport.ScrollUp(1)

	case h.ckb.Down.Match(key):
		m.viewport.ScrollDown(1)

	case h.ckb.Help.Match(key):
		m.toggleHelp()

	case h.kb.Search.Match(key):
		cmd = m.startSearch()

	case h.kb.NextMatch.Match(key):
		cmd = m.nextMatch()

	case h.kb.PrevMatch.Match(key):
		cmd = m.prevMatch()

	case h.kb.Raw.Match(key):
		cmd = m.toggleRaw()

	case h.kb.Copy.Match(key):
		cmd = m.copyCitation()
	}

	return m, cmd
}

// HandleSearchMode handles events while the user is typing a search term.
func (h *KeyHandler) HandleSearchMode(m Model, msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)

		return m, cmd
	}

	key := keyMsg.String()

	switch {
	case h.ckb.Escape.Match(key):
		return m, m.clearSearch()

	case key == "enter":
		return m, m.applySearch()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	return m, cmd
}
