package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/CEuchner/churchtools-song-export/internal/assemble"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
)

const htmlHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; }
table.songs { border-collapse: collapse; width: 100%%; }
table.songs th, table.songs td { text-align: left; padding: 2px 8px; }
.page-break { page-break-before: always; break-before: page; }
</style>
</head>
<body>
`

// HTML renders a printable HTML page. Every section after the first starts
// on a new page; cell and title styles are inlined.
type HTML struct{}

// Render implements Renderer.
func (HTML) Render(w io.Writer, doc Document) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, htmlHead, html.EscapeString(doc.Title))
	if doc.Title != "" {
		fmt.Fprintf(&sb, "<h1>%s</h1>\n", html.EscapeString(doc.Title))
	}

	for i, sec := range doc.Sections {
		if i > 0 {
			sb.WriteString("<div class=\"page-break\"></div>\n")
		}
		fmt.Fprintf(&sb, "<h2 style=\"%s\">%s</h2>\n", titleCSS(doc.Header), html.EscapeString(sec.Title))

		tw := newTable()
		tw.Style().HTML = table.HTMLOptions{
			CSSClass:    "songs",
			EmptyColumn: "&nbsp;",
			EscapeText:  false,
			Newline:     "<br/>",
		}
		escaped := headers(doc)
		for j := range escaped {
			escaped[j] = html.EscapeString(escaped[j])
		}
		tw.AppendHeader(toRow(escaped))
		for _, row := range sec.Rows {
			tw.AppendRow(toRow(htmlCells(row, len(doc.Columns))))
		}
		sb.WriteString(tw.RenderHTML())
		sb.WriteString("\n")
	}

	if doc.Footer != "" {
		fmt.Fprintf(&sb, "<footer>%s</footer>\n", html.EscapeString(doc.Footer))
	}
	sb.WriteString("</body>\n</html>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func titleCSS(style selection.HeaderStyle) string {
	decl := []string{
		"text-align: " + string(style.Alignment),
		fmt.Sprintf("font-size: %dpt", style.FontSize),
	}
	if style.Alignment == "" {
		decl[0] = "text-align: left"
	}
	if style.Bold {
		decl = append(decl, "font-weight: bold")
	} else {
		decl = append(decl, "font-weight: normal")
	}
	if style.Italic {
		decl = append(decl, "font-style: italic")
	}
	if style.Underline {
		decl = append(decl, "text-decoration: underline")
	}
	if style.Boxed {
		decl = append(decl, "border: 1px solid", "padding: 4px")
	}
	return strings.Join(decl, "; ")
}

func htmlCells(row assemble.Row, width int) []string {
	out := make([]string, width)
	if row.Spacer {
		return out
	}
	for i := 0; i < width && i < len(row.Cells); i++ {
		out[i] = htmlCell(row.Cells[i])
	}
	return out
}

func htmlCell(c assemble.Cell) string {
	if c.Text == "" {
		return ""
	}
	decl := []string{fmt.Sprintf("font-size: %dpt", c.FontSize)}
	if c.Bold {
		decl = append(decl, "font-weight: bold")
	}
	if c.Italic {
		decl = append(decl, "font-style: italic")
	}
	return fmt.Sprintf("<span style=\"%s\">%s</span>", strings.Join(decl, "; "), html.EscapeString(c.Text))
}
