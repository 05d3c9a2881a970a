package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/CEuchner/churchtools-song-export/internal/assemble"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
)

// pageBreak separates sections in plain text output.
const pageBreak = "\f"

// Text renders plain text tables, one per section, separated by form feeds.
// Fonts are not representable in plain text; bold and italic are dropped.
type Text struct{}

// Render implements Renderer.
func (Text) Render(w io.Writer, doc Document) error {
	var sb strings.Builder

	if doc.Title != "" {
		sb.WriteString(doc.Title)
		sb.WriteString("\n\n")
	}

	for i, sec := range doc.Sections {
		if i > 0 {
			sb.WriteString(pageBreak)
			sb.WriteString("\n")
		}
		body := textTable(doc, sec)
		sb.WriteString(textTitle(sec.Title, doc.Header, text.LongestLineLen(body)))
		sb.WriteString(body)
		sb.WriteString("\n")
	}

	if doc.Footer != "" {
		sb.WriteString("\n")
		sb.WriteString(doc.Footer)
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func textTable(doc Document, sec assemble.Section) string {
	tw := newTable()
	tw.AppendHeader(toRow(headers(doc)))
	for _, row := range sec.Rows {
		tw.AppendRow(toRow(cellTexts(row, len(doc.Columns))))
	}
	return tw.Render()
}

// textTitle lays out a section title above a table of the given width.
func textTitle(title string, style selection.HeaderStyle, width int) string {
	titleWidth := text.StringWidthWithoutEscSequences(title)
	if width < titleWidth {
		width = titleWidth
	}

	var lines []string
	if style.Boxed {
		border := "+" + strings.Repeat("-", titleWidth+2) + "+"
		lines = append(lines, border, fmt.Sprintf("| %s |", title), border)
		titleWidth += 4
	} else {
		lines = append(lines, title)
	}
	if style.Underline {
		lines = append(lines, strings.Repeat("=", titleWidth))
	}

	if style.Alignment == selection.AlignCenter && width > titleWidth {
		pad := strings.Repeat(" ", (width-titleWidth)/2)
		for i := range lines {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// newTable returns a table writer that keeps header labels as given.
func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleDefault)
	tw.Style().Format.Header = text.FormatDefault
	return tw
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
