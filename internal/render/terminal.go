package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/CEuchner/churchtools-song-export/internal/assemble"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
)

var (
	colorAccent = lipgloss.Color("#7C3AED")
	colorMuted  = lipgloss.Color("#6B7280")
	colorBorder = lipgloss.Color("#4B5563")
)

// Terminal renders styled tables for an interactive terminal.
type Terminal struct{}

// Render implements Renderer.
func (Terminal) Render(w io.Writer, doc Document) error {
	var blocks []string

	if doc.Title != "" {
		blocks = append(blocks, lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(doc.Title))
	}

	for _, sec := range doc.Sections {
		body := terminalTable(doc, sec)
		title := terminalTitleStyle(doc.Header, lipgloss.Width(body)).Render(sec.Title)
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left, title, body))
	}

	if doc.Footer != "" {
		blocks = append(blocks, lipgloss.NewStyle().Foreground(colorMuted).Render(doc.Footer))
	}

	_, err := io.WriteString(w, strings.Join(blocks, "\n\n")+"\n")
	return err
}

func terminalTable(doc Document, sec assemble.Section) string {
	rows := make([][]string, len(sec.Rows))
	for i, row := range sec.Rows {
		rows[i] = cellTexts(row, len(doc.Columns))
	}

	base := lipgloss.NewStyle().Padding(0, 1)
	headerStyle := base.Bold(true).Foreground(colorAccent)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers(doc)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(sec.Rows) || col >= len(sec.Rows[row].Cells) {
				return base
			}
			cell := sec.Rows[row].Cells[col]
			return base.Bold(cell.Bold).Italic(cell.Italic)
		})

	return t.Render()
}

func terminalTitleStyle(style selection.HeaderStyle, width int) lipgloss.Style {
	s := lipgloss.NewStyle().
		Bold(style.Bold).
		Italic(style.Italic).
		Underline(style.Underline)

	if style.Boxed {
		s = s.Border(lipgloss.NormalBorder()).Padding(0, 1)
	}
	if style.Alignment == selection.AlignCenter && width > 0 {
		s = s.Width(width).Align(lipgloss.Center)
		if style.Boxed {
			// Width includes padding but not the border.
			s = s.Width(width - 2)
		}
	}
	return s
}
