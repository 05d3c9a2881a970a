package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/CEuchner/churchtools-song-export/internal/assemble"
	"github.com/CEuchner/churchtools-song-export/internal/library"
	"github.com/CEuchner/churchtools-song-export/internal/render"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
)

// Footer placeholders.
const (
	PlaceholderDate  = "{date}"
	PlaceholderCount = "{count}"
	PlaceholderTitle = "{title}"
)

// DateFormat is the layout used for the {date} placeholder.
const DateFormat = "2006-01-02"

// ErrNoSource is returned when an Exporter has no library source.
var ErrNoSource = errors.New("no song source configured")

// Result summarizes one export run.
type Result struct {
	Sections int
	Songs    int
}

// Exporter runs the export pipeline: load the library, filter by category,
// assemble the sections and render them.
//
// The library is loaded once and reused by later runs. An Exporter is safe
// for concurrent use.
type Exporter struct {
	Source    library.Source
	Renderer  render.Renderer
	Assembler *assemble.Assembler
	Logger    *slog.Logger

	// Title is printed above the document. Footer is printed below it after
	// placeholder expansion.
	Title  string
	Footer string

	// Now returns the export time. Defaults to time.Now.
	Now func() time.Time

	mu  sync.Mutex
	lib *library.Library
}

// Library returns the song library, loading it on first use.
func (e *Exporter) Library(ctx context.Context) (*library.Library, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lib != nil {
		return e.lib, nil
	}
	if e.Source == nil {
		return nil, ErrNoSource
	}

	start := time.Now()
	lib, err := e.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load song library: %w", err)
	}
	e.logger().Info("song library loaded",
		"songs", len(lib.Songs),
		"tags", len(lib.Tags),
		"categories", len(lib.Categories),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	e.lib = lib
	return lib, nil
}

// Reset drops the cached library so the next run loads it again.
func (e *Exporter) Reset() {
	e.mu.Lock()
	e.lib = nil
	e.mu.Unlock()
}

// Run exports the songs selected by state to w.
//
// state is only read.
func (e *Exporter) Run(ctx context.Context, state *selection.State, w io.Writer) (Result, error) {
	if e.Renderer == nil {
		return Result{}, fmt.Errorf("export: %w", render.ErrUnknownFormat)
	}

	lib, err := e.Library(ctx)
	if err != nil {
		return Result{}, err
	}

	doc, songs := e.Document(lib, state)
	if err := e.Renderer.Render(w, doc); err != nil {
		return Result{}, fmt.Errorf("render document: %w", err)
	}

	res := Result{Sections: len(doc.Sections), Songs: songs}
	e.logger().Info("export finished", "sections", res.Sections, "songs", res.Songs)
	return res, nil
}

// Document assembles the render document for lib and state. It also returns
// the number of songs left after the category filter.
func (e *Exporter) Document(lib *library.Library, state *selection.State) (render.Document, int) {
	songs := library.FilterByCategory(lib.Songs, state.SelectedCategoryIDs.Has)

	asm := e.Assembler
	if asm == nil {
		asm = assemble.New()
	}
	sections := asm.Assemble(songs, state)

	e.logger().Debug("document assembled",
		"songs", len(songs),
		"filtered_out", len(lib.Songs)-len(songs),
		"sections", len(sections),
	)

	return render.Document{
		Title:    e.Title,
		Columns:  assemble.Columns(state),
		Sections: sections,
		Header:   state.Header,
		Footer:   ExpandFooter(e.Footer, e.now(), len(songs), e.Title),
	}, len(songs)
}

// ExpandFooter replaces the footer placeholders.
func ExpandFooter(footer string, now time.Time, count int, title string) string {
	if footer == "" {
		return ""
	}
	return strings.NewReplacer(
		PlaceholderDate, now.Format(DateFormat),
		PlaceholderCount, strconv.Itoa(count),
		PlaceholderTitle, title,
	).Replace(footer)
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Exporter) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}
