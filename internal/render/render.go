package render

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/CEuchner/churchtools-song-export/internal/assemble"
	"github.com/CEuchner/churchtools-song-export/internal/model"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
)

// ErrUnknownFormat is returned by New for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Output formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatCSV      = "csv"
	FormatTerminal = "terminal"
)

// Document is an assembled export ready to be rendered.
type Document struct {
	// Title is printed once above all sections. May be empty.
	Title string

	// Columns are the column headers, in the order of the section cells.
	Columns []model.DetailField

	Sections []assemble.Section

	// Header styles the section titles.
	Header selection.HeaderStyle

	// Footer is printed once after the last section. May be empty.
	Footer string
}

// Renderer writes a document in one output format.
type Renderer interface {
	Render(w io.Writer, doc Document) error
}

var renderers = map[string]struct {
	ext string
	new func() Renderer
}{
	FormatText:     {".txt", func() Renderer { return Text{} }},
	FormatMarkdown: {".md", func() Renderer { return Markdown{} }},
	FormatHTML:     {".html", func() Renderer { return HTML{} }},
	FormatCSV:      {".csv", func() Renderer { return CSV{} }},
	FormatTerminal: {".txt", func() Renderer { return Terminal{} }},
}

// New returns the renderer for format.
func New(format string) (Renderer, error) {
	r, ok := renderers[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
	return r.new(), nil
}

// Formats lists the supported formats in sorted order.
func Formats() []string {
	out := make([]string, 0, len(renderers))
	for name := range renderers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Extension returns the file extension for format, including the dot.
func Extension(format string) string {
	if r, ok := renderers[strings.ToLower(strings.TrimSpace(format))]; ok {
		return r.ext
	}
	return ""
}

func headers(doc Document) []string {
	out := make([]string, len(doc.Columns))
	for i, c := range doc.Columns {
		out[i] = c.Label
	}
	return out
}

// cellTexts returns the texts of a row padded or cut to width columns.
func cellTexts(row assemble.Row, width int) []string {
	out := make([]string, width)
	for i := 0; i < width && i < len(row.Cells); i++ {
		out[i] = row.Cells[i].Text
	}
	return out
}
