// Package ui provides the main UI for the folio application.
package ui

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-shellwords"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/foliolib/folio/pkg/book"
	"github.com/foliolib/folio/pkg/catalog"
	"github.com/foliolib/folio/pkg/keys"
	"github.com/foliolib/folio/pkg/shelf"
	"github.com/foliolib/folio/pkg/ui/browse"
	"github.com/foliolib/folio/pkg/ui/common"
	"github.com/foliolib/folio/pkg/ui/detail"
	"github.com/foliolib/folio/pkg/ui/filterform"
	"github.com/foliolib/folio/pkg/ui/overlay"
	"github.com/foliolib/folio/pkg/ui/statusbar"
	"github.com/foliolib/folio/pkg/ui/theme"
)

// NewProgram returns a new Tea program.
func NewProgram(cfg *Config, src common.CatalogSource, shelves []*shelf.Shelf) *tea.Program {
	slog.Debug("starting folio ui")

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	m := newModel(cfg, src, shelves)

	return tea.NewProgram(m, opts...)
}

type (
	// EditorFinishedMsg is sent when the external editor exits.
	EditorFinishedMsg struct{ Err error }
)

// State is the top-level application State.
type State int

const (
	stateShowBrowse State = iota
	stateShowDetail
	stateShowFilterForm
)

func (s State) String() string {
	return map[State]string{
		stateShowBrowse:     "browsing catalog",
		stateShowDetail:     "showing book",
		stateShowFilterForm: "showing filter form",
	}[s]
}

type OverlayState int

const (
	overlayStateNone OverlayState = iota
	overlayStateError
	overlayStateLoading
)

type model struct {
	err          error
	cm           *common.CommonModel
	overlay      *overlay.Overlay
	cfg          *Config
	kb           *KeyBinds
	events       chan catalog.Event
	spinner      spinner.Model
	browse       browse.Model
	detail       detail.Model
	form         filterform.Model
	state        State
	overlayState OverlayState
	loadStarted  time.Time
}

func newModel(cfg *Config, src common.CatalogSource, shelves []*shelf.Shelf) tea.Model {
	pair := theme.NewPair(cfg.ThemeDay, cfg.ThemeNight, cfg.ThemeMode)

	cm := &common.CommonModel{
		Source:    src,
		ThemePair: pair,
		Theme:     pair.Active(),
		KeyBinds:  cfg.KeyBinds.Common,
	}

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = cm.Theme.GenericTextStyle

	browseModel := browse.NewModel(browse.Config{
		CommonModel: cm,
		KeyBinds:    cfg.KeyBinds.Browse,
		Shelves:     shelves,
		PageSize:    cfg.PageSize,
		Compact:     *cfg.Compact,
	})

	detailModel := detail.NewModel(cm, cfg.KeyBinds.Detail)

	m := &model{
		cm:      cm,
		cfg:     cfg,
		kb:      cfg.KeyBinds,
		spinner: sp,
		state:   stateShowBrowse,
		browse:  browseModel,
		detail:  detailModel,
		overlay: overlay.New(cm.Theme),
		events:  make(chan catalog.Event, 8),
	}

	return m
}

func (m *model) Init() tea.Cmd {
	m.cm.Source.Subscribe(m.events)
	go m.cm.Source.WatchOnEvent()

	return tea.Batch(
		m.loadCatalog(),
		m.listenForEvents(),
	)
}

// loadCatalog kicks off a catalog load. Results arrive as catalog events.
func (m *model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		go m.cm.Source.Load()

		return nil
	}
}

// listenForEvents forwards the next catalog event into the program. Loads
// that finish faster than MinimumDelay are held back so the loading overlay
// doesn't flash.
func (m *model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		evt := <-m.events

		switch e := evt.(type) {
		case catalog.EventStart:
			m.loadStarted = time.Now()

			return e

		case catalog.EventEnd:
			if m.cfg.MinimumDelay != nil {
				if wait := *m.cfg.MinimumDelay - time.Since(m.loadStarted); wait > 0 {
					time.Sleep(wait)
				}
			}

			return e
		}

		return evt
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()

		if m.overlayState == overlayStateError {
			// Any key dismisses the error overlay.
			m.overlayState = overlayStateNone
			// Don't break, continue to handle the key event.
		}

		if newModel, cmd, handled := m.handleGlobalKeys(msg); handled {
			return newModel, cmd
		}

		if m.matchAction(m.kb.Common.Left, key) && m.state == stateShowDetail {
			m.closeDetail()
		}

		if m.matchAction(m.kb.Browse.Edit, key) && m.state == stateShowBrowse {
			return m, m.openEditor()
		}

	// Window size is received when starting up and on every resize.
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)

	case catalog.EventStart:
		m.cm.Loaded = false
		m.cm.ShowStatusMessage = false
		if m.cm.StatusMessageTimer != nil {
			m.cm.StatusMessageTimer.Stop()
		}

		m.overlayState = overlayStateLoading
		cmds = append(cmds, m.spinner.Tick, m.listenForEvents())

	case catalog.EventEnd:
		cmds = append(cmds, m.handleCatalogUpdate(msg)...)
		cmds = append(cmds, m.listenForEvents())

	case catalog.EventConfigure:
		cmds = append(cmds, m.listenForEvents())

	case browse.OpenBookMsg:
		m.state = stateShowDetail
		cmds = append(cmds, m.detail.SetBook(msg))

	case browse.ShowFilterFormMsg:
		m.state = stateShowFilterForm
		m.form = filterform.NewModel(m.browse.Books(), m.cm.Theme)
		m.form.SetHeight(m.cm.Height)
		cmds = append(cmds, m.form.Init())

	case EditorFinishedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.overlayState = overlayStateError

			break
		}

		cmds = append(cmds, m.loadCatalog())

	case common.StatusMessageTimeoutMsg:
		m.cm.ShowStatusMessage = false

	case common.ErrMsg:
		m.err = msg.Err
		m.overlayState = overlayStateError

	case spinner.TickMsg:
		if !m.cm.Loaded {
			var cmd tea.Cmd

			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case common.ThemeChangedMsg:
		// Every pane caches theme-derived renderers, so all of them
		// need to see the change, not just the active one.
		m.spinner.Style = m.cm.Theme.GenericTextStyle
		m.overlay = overlay.New(m.cm.Theme)
		m.overlay.SetSize(m.cm.Width, m.cm.Height)

		var browseCmd, detailCmd tea.Cmd

		m.browse, browseCmd = m.browse.Update(msg)
		m.detail, detailCmd = m.detail.Update(msg)

		return m, tea.Batch(append(cmds, browseCmd, detailCmd)...)
	}

	cmds = append(cmds, m.updateChildModels(msg)...)

	return m, tea.Batch(cmds...)
}

func (m *model) View() string {
	var (
		s string

		errorOverlayStyle = m.cm.Theme.ErrorOverlayStyle.
					Align(lipgloss.Left).
					Padding(1)

		loadingOverlayStyle = m.cm.Theme.GenericOverlayStyle.
					Align(lipgloss.Center).
					Padding(1)
	)

	switch m.state {
	case stateShowDetail:
		s = m.detail.View()
	case stateShowFilterForm:
		s = m.form.View()
	default:
		s = m.browse.View()
	}

	switch m.overlayState {
	case overlayStateError:
		s = m.overlay.Place(s, m.errorView(), 2.0/3.0, errorOverlayStyle)

	case overlayStateLoading:
		s = m.overlay.Place(s, m.loadingView(), 1.0/4.0, loadingOverlayStyle)
	}

	return strings.TrimRight(s, " \n")
}

func (m *model) errorView() string {
	errMsg := "<nil>"
	if m.err != nil {
		errMsg = m.err.Error()
	}

	return lipgloss.JoinVertical(lipgloss.Top,
		m.cm.Theme.ErrorTitleStyle.Padding(0, 1).Render("ERROR"),
		lipgloss.NewStyle().Padding(1, 0).Render(errMsg),
	)
}

func (m *model) loadingView() string {
	return m.spinner.View() + " Loading..."
}

// handleGlobalKeys handles keys that work across all contexts.
func (m *model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	key := msg.String()

	// Always allow suspend to work regardless of current focus.
	if m.kb.Common.Suspend.Match(key) {
		return m, tea.Suspend, true
	}

	switch {
	case m.matchAction(m.kb.Common.Quit, key):
		return m, tea.Quit, true

	case m.matchAction(m.kb.Common.Escape, key):
		switch m.state {
		case stateShowDetail:
			if m.detail.Searching() {
				// The search input consumes escape itself.
				return m, nil, false
			}

			m.closeDetail()

		case stateShowFilterForm:
			m.state = stateShowBrowse

		case stateShowBrowse:
			if m.browse.FilterState == browse.Filtering {
				// The filter input consumes escape itself.
				return m, nil, false
			}
			if m.browse.FilterApplied() {
				return m, m.browse.ResetFiltering(), true
			}
		}

		return m, nil, true

	case m.matchAction(m.kb.Common.Error, key):
		if m.err != nil {
			if m.overlayState == overlayStateError {
				m.overlayState = overlayStateNone
			} else {
				m.overlayState = overlayStateError
			}
		}

		return m, nil, true

	case m.matchAction(m.kb.Common.ThemeToggle, key):
		return m, tea.Batch(
			m.cm.ToggleTheme(),
			m.cm.SendStatusMessage(
				fmt.Sprintf("%s theme", m.cm.ThemePair.Mode()),
				statusbar.StyleNormal,
			),
		), true

	case m.matchAction(m.kb.Common.Reload, key):
		return m, m.loadCatalog(), true
	}

	return m, nil, false
}

func (m *model) matchAction(kb *keys.KeyBind, key string) bool {
	if m.isTextInputFocused() && keys.IsTextInputAction(key) {
		return false
	}

	return kb.Match(key)
}

func (m *model) isTextInputFocused() bool {
	if m.state == stateShowBrowse && m.browse.FilterState == browse.Filtering {
		// Pass through to the browse filter input.
		return true
	}
	if m.state == stateShowFilterForm {
		// Pass through to the form.
		return true
	}
	if m.state == stateShowDetail && m.detail.Searching() {
		// Pass through to the search input.
		return true
	}

	return false
}

func (m *model) closeDetail() {
	m.detail.Unload()
	m.state = stateShowBrowse
}

// handleCatalogUpdate processes a finished catalog load.
func (m *model) handleCatalogUpdate(msg catalog.EventEnd) []tea.Cmd {
	var cmds []tea.Cmd

	m.cm.Loaded = true
	m.overlayState = overlayStateNone

	if msg.Error != nil {
		m.err = msg.Error
		m.overlayState = overlayStateError

		return cmds
	}

	m.err = nil

	if m.state == stateShowDetail {
		// Keep the detail view open when the displayed book survives the
		// reload; its raw view marks what changed.
		if b := findBook(msg.Books, m.detail.Book); b != nil {
			cmds = append(cmds, m.detail.Refresh(b))
		} else {
			m.closeDetail()
		}
	}

	cmds = append(cmds, m.browse.SetBooks(msg.Books))

	statusMsg := fmt.Sprintf("loaded %s books", humanize.Comma(int64(len(msg.Books))))
	if msg.Added > 0 || msg.Removed > 0 {
		statusMsg = fmt.Sprintf("catalog updated (+%d −%d)", msg.Added, msg.Removed)
	}
	cmds = append(cmds, m.cm.SendStatusMessage(statusMsg, statusbar.StyleSuccess))

	return cmds
}

// findBook matches a book by title and author in a freshly loaded catalog.
func findBook(books []*book.Book, target *book.Book) *book.Book {
	if target == nil {
		return nil
	}

	for _, b := range books {
		if b.Title == target.Title && b.Author == target.Author {
			return b
		}
	}

	return nil
}

// openEditor suspends the UI and opens the catalog file in $EDITOR.
func (m *model) openEditor() tea.Cmd {
	path := m.cm.Source.Path()
	if path == "" {
		return m.cm.SendStatusMessage("no catalog file to edit", statusbar.StyleError)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	args, err := shellwords.Parse(editor)
	if err != nil {
		return func() tea.Msg {
			return common.ErrMsg{Err: fmt.Errorf("parse EDITOR: %w", err)}
		}
	}
	if len(args) == 0 {
		return m.cm.SendStatusMessage("EDITOR is empty", statusbar.StyleError)
	}

	args = append(args, path)
	c := exec.Command(args[0], args[1:]...) //nolint:gosec // The user's own editor.

	return tea.ExecProcess(c, func(err error) tea.Msg {
		return EditorFinishedMsg{Err: err}
	})
}

// updateChildModels updates child models based on current state.
func (m *model) updateChildModels(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd

	switch m.state {
	case stateShowBrowse:
		newBrowseModel, cmd := m.browse.Update(msg)
		m.browse = newBrowseModel

		cmds = append(cmds, cmd)

	case stateShowDetail:
		newDetailModel, cmd := m.detail.Update(msg)
		m.detail = newDetailModel

		cmds = append(cmds, cmd)

	case stateShowFilterForm:
		newFormModel, cmd := m.form.Update(msg)
		m.form = newFormModel

		cmds = append(cmds, m.resolveForm(), cmd)
	}

	return cmds
}

// resolveForm applies or discards the filter form once it settles.
func (m *model) resolveForm() tea.Cmd {
	if m.form.IsAborted() {
		m.state = stateShowBrowse

		return nil
	}

	if !m.form.IsCompleted() {
		return nil
	}

	books, desc := m.form.Result()
	m.state = stateShowBrowse

	return tea.Batch(
		m.browse.ApplySequence(books),
		m.cm.SendStatusMessage(desc, statusbar.StyleNormal),
	)
}

// handleWindowResize handles terminal window resize events.
func (m *model) handleWindowResize(msg tea.WindowSizeMsg) {
	m.cm.Width = msg.Width
	m.cm.Height = msg.Height
	m.browse.SetSize(msg.Width, msg.Height)
	m.detail.SetSize(msg.Width, msg.Height)
	m.form.SetHeight(msg.Height)
	m.overlay.SetSize(msg.Width, msg.Height)
}
