package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CEuchner/churchtools-song-export/internal/model"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func newTestModel(t *testing.T) (Model, *selection.Controller) {
	t.Helper()
	tags := []model.Tag{{ID: 1, Name: "Praise"}, {ID: 2, Name: "Worship"}}
	cats := []model.Category{{ID: 10, Name: "Hymns"}, {ID: 11, Name: "Modern"}}
	ctrl := selection.NewController(selection.NewState(tags, cats), nil)
	return NewModel(context.Background(), ctrl, nil, nil), ctrl
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func TestModel_ToggleCategory(t *testing.T) {
	m, ctrl := newTestModel(t)

	press(t, m, keyDown, keySpace)

	s := ctrl.Snapshot()
	assert.True(t, s.SelectedCategoryIDs.Has(10))
	assert.False(t, s.SelectedCategoryIDs.Has(11))
}

func TestModel_SelectAllCategories(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = press(t, m, runes("a"))
	assert.Equal(t, 0, ctrl.Snapshot().SelectedCategoryIDs.Len())

	press(t, m, runes("a"))
	assert.Equal(t, 2, ctrl.Snapshot().SelectedCategoryIDs.Len())
}

func TestModel_TagPane(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = press(t, m, keyTab, runes("J"))
	s := ctrl.Snapshot()
	assert.Equal(t, "Worship", s.OrderedTags[0].Name)
	assert.Equal(t, "Praise", s.OrderedTags[1].Name)
	assert.Equal(t, 1, m.cursor[PaneTags])

	// Moving past the end is ignored.
	m = press(t, m, runes("J"))
	assert.NoError(t, m.err)
	assert.Equal(t, "Praise", ctrl.Snapshot().OrderedTags[1].Name)

	press(t, m, runes("g"), keySpace)
	s = ctrl.Snapshot()
	assert.True(t, s.Grouped(selection.TagContext(1)))
	assert.False(t, s.SelectedTagIDs.Has(1))
}

func TestModel_DetailPane(t *testing.T) {
	m, ctrl := newTestModel(t)
	m = press(t, m, keyTab, keyTab)
	require.Equal(t, PaneDetails, m.pane)

	// The name column cannot be deselected.
	m = press(t, m, keySpace)
	assert.ErrorIs(t, m.err, selection.ErrNameRequired)
	assert.True(t, ctrl.Snapshot().SelectedDetails.Has(model.DetailName))

	m = press(t, m, runes("i"), runes("+"), runes("+"))
	assert.NoError(t, m.err)
	f := ctrl.Snapshot().FormattingOf(model.DetailName)
	assert.True(t, f.Italic)
	assert.True(t, f.Bold)
	assert.Equal(t, selection.DefaultFontSize+2, f.FontSize)

	// Category is the third catalog entry and not selected by default.
	press(t, m, keyDown, keyDown, keySpace)
	assert.True(t, ctrl.Snapshot().SelectedDetails.Has(model.DetailCategory))
}

func TestModel_DetailLimit(t *testing.T) {
	m, ctrl := newTestModel(t)
	m = press(t, m, keyTab, keyTab, keyDown, keyDown, keySpace, keyDown, keySpace)

	assert.ErrorIs(t, m.err, selection.ErrDetailLimit)
	assert.Equal(t, model.MaxDetailColumns, ctrl.Snapshot().SelectedDetails.Len())
}

func TestModel_OptionsPane(t *testing.T) {
	m, ctrl := newTestModel(t)
	m = press(t, m, keyTab, keyTab, keyTab)
	require.Equal(t, PaneOptions, m.pane)

	m = press(t, m, keySpace, keyDown, keySpace, keyDown, keySpace, keyDown, keySpace)
	s := ctrl.Snapshot()
	assert.True(t, s.IncludeAllSongs)
	assert.True(t, s.Grouped(selection.AllSongsContext))
	assert.Equal(t, selection.AlignCenter, s.Header.Alignment)
	assert.False(t, s.Header.Bold)

	for i := optHeaderBold; i < optHeaderSize; i++ {
		m = press(t, m, keyDown)
	}
	m = press(t, m, runes("-"))
	assert.Equal(t, selection.DefaultHeaderFontSize-1, ctrl.Snapshot().Header.FontSize)

	// Space does nothing on the size row.
	press(t, m, keySpace)
	assert.Equal(t, selection.DefaultHeaderFontSize-1, ctrl.Snapshot().Header.FontSize)
}

func TestModel_PaneNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, PaneOptions, m.pane)

	m = press(t, m, keyTab)
	assert.Equal(t, PaneCategories, m.pane)

	m = press(t, m, keyDown, keyDown, keyDown)
	assert.Equal(t, 1, m.cursor[PaneCategories])
}

func TestModel_Save(t *testing.T) {
	m, _ := newTestModel(t)

	var saved *selection.State
	m.save = func(s *selection.State) error {
		saved = s
		return nil
	}

	next, cmd := m.Update(runes("s"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	// The batch runs the spinner tick and the save.
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	var result tea.Msg
	for _, c := range batch {
		if msg, ok := c().(SavedMsg); ok {
			result = msg
		}
	}
	require.NotNil(t, result)
	require.NotNil(t, saved)

	next, _ = m.Update(result)
	m = next.(Model)
	assert.False(t, m.busy)
	assert.Equal(t, "Settings saved", m.status)
}

func TestModel_ExportError(t *testing.T) {
	m, _ := newTestModel(t)
	boom := errors.New("server unreachable")

	next, _ := m.Update(ExportedMsg{Err: boom})
	m = next.(Model)
	assert.ErrorIs(t, m.err, boom)
	assert.Contains(t, m.View(), "server unreachable")

	next, _ = m.Update(ExportedMsg{Result: "3 songs written to songs.html"})
	m = next.(Model)
	assert.NoError(t, m.err)
	assert.Contains(t, m.View(), "3 songs written to songs.html")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()

	for _, want := range []string{"Categories", "Hymns", "Praise", "Name", "All songs section"} {
		assert.Contains(t, view, want)
	}
}
