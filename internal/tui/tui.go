// Package tui provides a Bubble Tea editor for the song export selection.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CEuchner/churchtools-song-export/internal/selection"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6C757D")).
			Padding(0, 1)

	activePaneStyle = paneStyle.
			BorderForeground(lipgloss.Color("#4ECDC4"))
)

// Pane identifies one column of the editor.
type Pane int

const (
	PaneCategories Pane = iota
	PaneTags
	PaneDetails
	PaneOptions
	paneCount
)

var paneTitles = [paneCount]string{"Categories", "Tags", "Columns", "Options"}

// Rows of the options pane.
const (
	optIncludeAll = iota
	optGroupAll
	optAlignment
	optHeaderBold
	optHeaderItalic
	optHeaderUnderline
	optHeaderBox
	optHeaderSize
	optionCount
)

// SaveFunc persists the selection.
type SaveFunc func(state *selection.State) error

// ExportFunc exports the selection and returns a short result description.
type ExportFunc func(ctx context.Context, state *selection.State) (string, error)

// Message types
type (
	// SavedMsg is sent when saving the settings document completes.
	SavedMsg struct {
		Err error
	}

	// ExportedMsg is sent when an export completes.
	ExportedMsg struct {
		Result string
		Err    error
	}
)

// Model is the Bubble Tea model of the selection editor.
//
// The model never changes the selection itself: every key that edits the
// selection is turned into a selection command and dispatched through the
// controller.
type Model struct {
	ctrl   *selection.Controller
	save   SaveFunc
	export ExportFunc
	ctx    context.Context

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	pane   Pane
	cursor [paneCount]int

	busy   bool
	status string
	err    error

	width  int
	height int
}

// NewModel creates an editor for the selection owned by ctrl.
func NewModel(ctx context.Context, ctrl *selection.Controller, save SaveFunc, export ExportFunc) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	return Model{
		ctrl:    ctrl,
		save:    save,
		export:  export,
		ctx:     ctx,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SavedMsg:
		m.busy = false
		m.setResult("Settings saved", msg.Err)
		return m, nil

	case ExportedMsg:
		m.busy = false
		m.setResult(msg.Result, msg.Err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) setResult(status string, err error) {
	m.err = err
	m.status = ""
	if err == nil {
		m.status = status
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.NextPane):
		m.pane = (m.pane + 1) % paneCount
		return m, nil

	case key.Matches(msg, m.keys.PrevPane):
		m.pane = (m.pane + paneCount - 1) % paneCount
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor[m.pane] > 0 {
			m.cursor[m.pane]--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor[m.pane] < m.paneLen(m.ctrl.Snapshot())-1 {
			m.cursor[m.pane]++
		}
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if m.busy || m.save == nil {
			return m, nil
		}
		m.busy = true
		state := m.ctrl.Snapshot()
		save := m.save
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			return SavedMsg{Err: save(state)}
		})

	case key.Matches(msg, m.keys.Export):
		if m.busy || m.export == nil {
			return m, nil
		}
		m.busy = true
		state := m.ctrl.Snapshot()
		export, ctx := m.export, m.ctx
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			res, err := export(ctx, state)
			return ExportedMsg{Result: res, Err: err}
		})
	}

	if cmd := m.command(msg); cmd != nil {
		err := m.ctrl.Dispatch(cmd)
		m.setResult("", err)
		if err == nil {
			m.followMove(cmd)
		}
	}
	return m, nil
}

// command maps an editing key to a selection command for the current pane
// and cursor. It returns nil for keys that do nothing there.
func (m Model) command(msg tea.KeyMsg) selection.Command {
	s := m.ctrl.Snapshot()
	cur := m.cursor[m.pane]

	switch m.pane {
	case PaneCategories:
		if cur >= len(s.Categories) {
			return nil
		}
		switch {
		case key.Matches(msg, m.keys.Toggle):
			return selection.ToggleCategory{ID: s.Categories[cur].ID}
		case key.Matches(msg, m.keys.All):
			return selection.SelectAllCategories{Selected: s.SelectedCategoryIDs.Len() < len(s.Categories)}
		}

	case PaneTags:
		if cur >= len(s.OrderedTags) {
			return nil
		}
		tag := s.OrderedTags[cur]
		switch {
		case key.Matches(msg, m.keys.Toggle):
			return selection.ToggleTag{ID: tag.ID}
		case key.Matches(msg, m.keys.All):
			return selection.SelectAllTags{Selected: s.SelectedTagIDs.Len() < len(s.Tags)}
		case key.Matches(msg, m.keys.MoveUp) && cur > 0:
			return selection.MoveTag{From: cur, To: cur - 1}
		case key.Matches(msg, m.keys.MoveDown) && cur < len(s.OrderedTags)-1:
			return selection.MoveTag{From: cur, To: cur + 1}
		case key.Matches(msg, m.keys.Group):
			ctx := selection.TagContext(tag.ID)
			return selection.SetGrouping{Context: ctx, Enabled: !s.Grouped(ctx)}
		}

	case PaneDetails:
		if cur >= len(s.OrderedDetails) {
			return nil
		}
		field := s.OrderedDetails[cur]
		f := s.FormattingOf(field.ID)
		switch {
		case key.Matches(msg, m.keys.Toggle):
			return selection.ToggleDetail{ID: field.ID}
		case key.Matches(msg, m.keys.MoveUp) && cur > 0:
			return selection.MoveDetail{From: cur, To: cur - 1}
		case key.Matches(msg, m.keys.MoveDown) && cur < len(s.OrderedDetails)-1:
			return selection.MoveDetail{From: cur, To: cur + 1}
		case key.Matches(msg, m.keys.Bold):
			f.Bold = !f.Bold
			return selection.SetFormatting{ID: field.ID, Formatting: f}
		case key.Matches(msg, m.keys.Italic):
			f.Italic = !f.Italic
			return selection.SetFormatting{ID: field.ID, Formatting: f}
		case key.Matches(msg, m.keys.Bigger):
			f.FontSize++
			return selection.SetFormatting{ID: field.ID, Formatting: f}
		case key.Matches(msg, m.keys.Smaller):
			f.FontSize--
			return selection.SetFormatting{ID: field.ID, Formatting: f}
		}

	case PaneOptions:
		return m.optionCommand(msg, s, cur)
	}
	return nil
}

func (m Model) optionCommand(msg tea.KeyMsg, s *selection.State, cur int) selection.Command {
	h := s.Header

	if cur == optHeaderSize {
		switch {
		case key.Matches(msg, m.keys.Bigger):
			h.FontSize++
		case key.Matches(msg, m.keys.Smaller):
			h.FontSize--
		default:
			return nil
		}
		return selection.SetHeaderStyle{Style: h}
	}

	if !key.Matches(msg, m.keys.Toggle) {
		return nil
	}
	switch cur {
	case optIncludeAll:
		return selection.SetIncludeAllSongs{Enabled: !s.IncludeAllSongs}
	case optGroupAll:
		return selection.SetGrouping{Context: selection.AllSongsContext, Enabled: !s.Grouped(selection.AllSongsContext)}
	case optAlignment:
		h.Alignment = selection.AlignCenter
		if s.Header.Alignment == selection.AlignCenter {
			h.Alignment = selection.AlignLeft
		}
	case optHeaderBold:
		h.Bold = !h.Bold
	case optHeaderItalic:
		h.Italic = !h.Italic
	case optHeaderUnderline:
		h.Underline = !h.Underline
	case optHeaderBox:
		h.Boxed = !h.Boxed
	default:
		return nil
	}
	return selection.SetHeaderStyle{Style: h}
}

// followMove keeps the cursor on an item that was moved.
func (m *Model) followMove(cmd selection.Command) {
	switch c := cmd.(type) {
	case selection.MoveTag:
		m.cursor[m.pane] = c.To
	case selection.MoveDetail:
		m.cursor[m.pane] = c.To
	}
}

func (m Model) paneLen(s *selection.State) int {
	switch m.pane {
	case PaneCategories:
		return len(s.Categories)
	case PaneTags:
		return len(s.OrderedTags)
	case PaneDetails:
		return len(s.OrderedDetails)
	default:
		return optionCount
	}
}

// View renders the UI.
func (m Model) View() string {
	s := m.ctrl.Snapshot()
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ Song Export"))
	b.WriteString("\n")

	panes := make([]string, paneCount)
	for p := Pane(0); p < paneCount; p++ {
		style := paneStyle
		if p == m.pane {
			style = activePaneStyle
		}
		lines := append([]string{paneTitleStyle.Render(paneTitles[p])}, m.paneLines(s, p)...)
		panes[p] = style.Render(strings.Join(lines, "\n"))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panes...))
	b.WriteString("\n")

	// Status line
	switch {
	case m.busy:
		b.WriteString(m.spinner.View() + " working...")
	case m.err != nil:
		b.WriteString(errorStyle.Render("✗ " + m.err.Error()))
	case m.status != "":
		b.WriteString(successStyle.Render("✓ " + m.status))
	}
	b.WriteString("\n")

	// Footer
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) paneLines(s *selection.State, p Pane) []string {
	var lines []string
	add := func(i int, checked bool, label string) {
		prefix := "  "
		if p == m.pane && i == m.cursor[p] {
			prefix = cursorStyle.Render("› ")
		}
		lines = append(lines, prefix+checkbox(checked)+" "+label)
	}

	switch p {
	case PaneCategories:
		for i, c := range s.Categories {
			add(i, s.SelectedCategoryIDs.Has(c.ID), c.Name)
		}
	case PaneTags:
		for i, t := range s.OrderedTags {
			label := t.Name
			if s.Grouped(selection.TagContext(t.ID)) {
				label += dimStyle.Render(" a-z")
			}
			add(i, s.SelectedTagIDs.Has(t.ID), label)
		}
	case PaneDetails:
		for i, f := range s.OrderedDetails {
			add(i, s.SelectedDetails.Has(f.ID), f.Label+dimStyle.Render(" "+formattingLabel(s.FormattingOf(f.ID))))
		}
	case PaneOptions:
		h := s.Header
		add(optIncludeAll, s.IncludeAllSongs, "All songs section")
		add(optGroupAll, s.Grouped(selection.AllSongsContext), "Group all songs a-z")
		add(optAlignment, h.Alignment == selection.AlignCenter, "Center titles")
		add(optHeaderBold, h.Bold, "Bold titles")
		add(optHeaderItalic, h.Italic, "Italic titles")
		add(optHeaderUnderline, h.Underline, "Underline titles")
		add(optHeaderBox, h.Boxed, "Boxed titles")
		add(optHeaderSize, false, fmt.Sprintf("Title size %dpt (+/-)", h.FontSize))
	}

	if len(lines) == 0 {
		lines = append(lines, dimStyle.Render("  (none)"))
	}
	return lines
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

func formattingLabel(f selection.Formatting) string {
	label := fmt.Sprintf("%dpt", f.FontSize)
	if f.Bold {
		label += " b"
	}
	if f.Italic {
		label += " i"
	}
	return label
}

// Run starts the editor.
func Run(ctx context.Context, ctrl *selection.Controller, save SaveFunc, export ExportFunc) error {
	p := tea.NewProgram(NewModel(ctx, ctrl, save, export), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
