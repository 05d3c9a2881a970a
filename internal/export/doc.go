// Package export runs the song export pipeline: it loads the song library,
// filters it by the selected categories, assembles the document sections and
// renders them.
//
//	e := &export.Exporter{Source: src, Renderer: r, Footer: "{count} songs, {date}"}
//	res, err := e.Run(ctx, state, w)
package export
