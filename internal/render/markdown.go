package render

import (
	"io"
	"strings"

	"github.com/CEuchner/churchtools-song-export/internal/assemble"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
)

// Markdown renders one heading and table per section. Bold and italic cells
// use emphasis markers; font sizes are dropped.
type Markdown struct{}

// Render implements Renderer.
func (Markdown) Render(w io.Writer, doc Document) error {
	var sb strings.Builder

	if doc.Title != "" {
		sb.WriteString("# " + doc.Title + "\n\n")
	}

	for i, sec := range doc.Sections {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		sb.WriteString(markdownTitle(sec.Title, doc.Header))
		sb.WriteString("\n\n")

		tw := newTable()
		tw.AppendHeader(toRow(headers(doc)))
		for _, row := range sec.Rows {
			tw.AppendRow(toRow(markdownCells(row, len(doc.Columns))))
		}
		sb.WriteString(tw.RenderMarkdown())
		sb.WriteString("\n")
	}

	if doc.Footer != "" {
		sb.WriteString("\n" + doc.Footer + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func markdownTitle(title string, style selection.HeaderStyle) string {
	t := title
	if style.Italic {
		t = "*" + t + "*"
	}
	if style.Underline {
		t = "<u>" + t + "</u>"
	}
	if style.Alignment == selection.AlignCenter {
		return `<h2 align="center">` + t + "</h2>"
	}
	return "## " + t
}

func markdownCells(row assemble.Row, width int) []string {
	out := cellTexts(row, width)
	for i := range out {
		if out[i] == "" || i >= len(row.Cells) {
			continue
		}
		switch c := row.Cells[i]; {
		case c.Bold && c.Italic:
			out[i] = "***" + out[i] + "***"
		case c.Bold:
			out[i] = "**" + out[i] + "**"
		case c.Italic:
			out[i] = "*" + out[i] + "*"
		}
	}
	return out
}
