package detail_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/foliolib/folio/pkg/book"
	"github.com/foliolib/folio/pkg/catalog"
	"github.com/foliolib/folio/pkg/ui/common"
	"github.com/foliolib/folio/pkg/ui/detail"
	"github.com/foliolib/folio/pkg/ui/theme"
	"github.com/foliolib/folio/pkg/uitest"
)

func TestMain(m *testing.M) {
	uitest.SetupColorProfile()
	m.Run()
}

func newTestModel(t *testing.T) detail.Model {
	t.Helper()

	ckb := &common.KeyBinds{}
	ckb.EnsureDefaults()

	kb := &detail.KeyBinds{}
	kb.EnsureDefaults()

	cm := &common.CommonModel{
		Source:   catalog.NewDefault(),
		Theme:    theme.Default,
		KeyBinds: ckb,
	}

	m := detail.NewModel(cm, kb)
	m.SetSize(100, 40)

	return m
}

func testBook() *book.Book {
	return &book.Book{
		Title:       "The Left Hand of Darkness",
		Author:      "Ursula K. Le Guin",
		Genre:       "Science Fiction",
		Year:        1969,
		Pages:       304,
		Language:    "English",
		Description: "An envoy to the planet Gethen navigates a society without fixed gender.",
		Excerpt:     "The king was pregnant.",
		Tags:        []string{"hainish", "hugo"},
	}
}

// drain runs a command, feeding any resulting messages back into the model,
// until no commands remain.
func drain(m detail.Model, cmd tea.Cmd) detail.Model {
	if cmd == nil {
		return m
	}

	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(m, c)
		}

		return m
	}

	if msg == nil {
		return m
	}

	m, next := m.Update(msg)

	return drain(m, next)
}

func TestModelShowsBook(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = drain(m, m.SetBook(testBook()))

	view := m.View()
	assert.Contains(t, view, "The Left Hand of Darkness")
	assert.Contains(t, view, "Ursula K. Le Guin · 1969")
	assert.Contains(t, view, "Science Fiction · English · 304 pages")
	assert.Contains(t, view, "navigates a society")
	assert.Contains(t, view, "The king was pregnant.")
	assert.Contains(t, view, "hainish, hugo")
}

func TestModelToggleRaw(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = drain(m, m.SetBook(testBook()))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	m = drain(m, cmd)

	view := m.View()
	assert.Contains(t, view, "(raw)")
	assert.Contains(t, view, "title:")
	assert.Contains(t, view, "author:")

	// Toggling again restores the prose view.
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	m = drain(m, cmd)

	view = m.View()
	assert.NotContains(t, view, "(raw)")
	assert.Contains(t, view, "The king was pregnant.")
}

func TestModelCopyCitation(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = drain(m, m.SetBook(testBook()))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)

	assert.Contains(t, m.View(), "copied citation")
}

func TestModelSearch(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = drain(m, m.SetBook(testBook()))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m = drain(m, cmd)

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("pregnant")})
	m = drain(m, cmd)

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(m, cmd)

	// Step to the first match.
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = drain(m, cmd)

	assert.Contains(t, m.View(), "match 1/1")
}

func TestModelSearchNoMatches(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = drain(m, m.SetBook(testBook()))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = drain(m, cmd)

	assert.Contains(t, m.View(), "no matches")
}

func TestModelSearching(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = drain(m, m.SetBook(testBook()))
	assert.False(t, m.Searching())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m = drain(m, cmd)
	assert.True(t, m.Searching())

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = drain(m, cmd)
	assert.False(t, m.Searching())
}

func TestModelRefresh(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = drain(m, m.SetBook(testBook()))

	revised := testBook()
	revised.Rating = 4.5

	m = drain(m, m.Refresh(revised))

	assert.Same(t, revised, m.Book)
	assert.Contains(t, m.View(), "rated 4.5")
}

func TestModelUnload(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = drain(m, m.SetBook(testBook()))
	require.NotNil(t, m.Book)

	m.Unload()
	assert.Nil(t, m.Book)
	assert.NotContains(t, m.View(), "The Left Hand of Darkness")
}
