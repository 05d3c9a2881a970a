package render

import "io"

// SectionHeader is the label of the leading section column in CSV output.
const SectionHeader = "Section"

// CSV renders all sections into one table with a leading section column.
// Spacer rows, styles and the footer are omitted.
type CSV struct{}

// Render implements Renderer.
func (CSV) Render(w io.Writer, doc Document) error {
	tw := newTable()
	tw.AppendHeader(toRow(append([]string{SectionHeader}, headers(doc)...)))

	for _, sec := range doc.Sections {
		for _, row := range sec.Rows {
			if row.Spacer {
				continue
			}
			tw.AppendRow(toRow(append([]string{sec.Title}, cellTexts(row, len(doc.Columns))...)))
		}
	}

	_, err := io.WriteString(w, tw.RenderCSV()+"\n")
	return err
}
