// Package render writes assembled song documents in the supported output
// formats.
//
// Every format implements Renderer:
//
//	r, err := render.New(render.FormatHTML)
//	if err != nil {
//	    return err
//	}
//	err = r.Render(w, render.Document{
//	    Title:    "Songs",
//	    Columns:  assemble.Columns(state),
//	    Sections: sections,
//	    Header:   state.Header,
//	})
//
// Text, Markdown, HTML and CSV output is built with go-pretty tables; the
// terminal format uses lipgloss.
package render
