package export

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CEuchner/churchtools-song-export/internal/library"
	"github.com/CEuchner/churchtools-song-export/internal/model"
	"github.com/CEuchner/churchtools-song-export/internal/render"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Lieder: Advent/Weihnachten", "Lieder_ Advent_Weihnachten"},
		{"Songs...", "Songs"},
		{"  Name   with  spaces ", "Name with spaces"},
		{"Tab\there", "Tab_here"},
		{"Straßenlieder", "Straßenlieder"},
		{"...", ""},
	}

	for _, tt := range tests {
		if got := SanitizeFileName(tt.name); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDefaultFileName(t *testing.T) {
	tests := []struct {
		title, format, want string
	}{
		{"Songs 2024", render.FormatHTML, "Songs 2024.html"},
		{"a/b", render.FormatMarkdown, "a_b.md"},
		{"", render.FormatCSV, "songs.csv"},
		{"?", render.FormatText, "_.txt"},
	}

	for _, tt := range tests {
		if got := DefaultFileName(tt.title, tt.format); got != tt.want {
			t.Errorf("DefaultFileName(%q, %q) = %q, want %q", tt.title, tt.format, got, tt.want)
		}
	}
}

func TestExpandFooter(t *testing.T) {
	now := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, "", ExpandFooter("", now, 3, "x"))
	assert.Equal(t, "Songs: 3 songs as of 2024-03-01", ExpandFooter("{title}: {count} songs as of {date}", now, 3, "Songs"))
	assert.Equal(t, "no placeholders", ExpandFooter("no placeholders", now, 3, ""))
}

type countingSource struct {
	lib   *library.Library
	err   error
	calls int
}

func (s *countingSource) Load(ctx context.Context) (*library.Library, error) {
	s.calls++
	return s.lib, s.err
}

func testLibrary() *library.Library {
	hymns := model.Category{ID: 1, Name: "Hymns"}
	modern := model.Category{ID: 2, Name: "Modern"}
	praise := model.Tag{ID: 5, Name: "Praise"}

	return &library.Library{
		Songs: []model.Song{
			{ID: 1, Name: "Amazing Grace", Category: &hymns, Tags: []model.Tag{praise}},
			{ID: 2, Name: "Oceans", Category: &modern, Tags: []model.Tag{praise}},
			{ID: 3, Name: "Loose Song"},
		},
		Tags:       []model.Tag{praise},
		Categories: []model.Category{hymns, modern},
	}
}

func TestExporter_Run(t *testing.T) {
	src := &countingSource{lib: testLibrary()}
	renderer, err := render.New(render.FormatCSV)
	require.NoError(t, err)

	e := &Exporter{
		Source:   src,
		Renderer: renderer,
		Footer:   "{count} songs",
		Now:      func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) },
	}

	lib, err := e.Library(context.Background())
	require.NoError(t, err)
	state := selection.NewState(lib.Tags, lib.Categories)
	require.NoError(t, selection.ToggleCategory{ID: 2}.Apply(state))

	var buf bytes.Buffer
	res, err := e.Run(context.Background(), state, &buf)
	require.NoError(t, err)

	assert.Equal(t, Result{Sections: 1, Songs: 2}, res)
	assert.Equal(t, 1, src.calls)
	assert.Contains(t, buf.String(), "Praise,Amazing Grace")
	assert.NotContains(t, buf.String(), "Oceans")

	doc, n := e.Document(lib, state)
	assert.Equal(t, 2, n)
	assert.Equal(t, "2 songs", doc.Footer)
	assert.Equal(t, state.Header, doc.Header)

	e.Reset()
	_, err = e.Run(context.Background(), state, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestExporter_FallbackSection(t *testing.T) {
	lib := testLibrary()
	e := &Exporter{Source: &countingSource{lib: lib}}

	state := selection.NewState(lib.Tags, lib.Categories)
	require.NoError(t, selection.SelectAllTags{Selected: false}.Apply(state))

	doc, n := e.Document(lib, state)
	assert.Equal(t, 3, n)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, 3, doc.Sections[0].SongCount())
}

func TestExporter_Errors(t *testing.T) {
	renderer, err := render.New(render.FormatText)
	require.NoError(t, err)
	state := selection.NewState(nil, nil)

	_, err = (&Exporter{Renderer: renderer}).Run(context.Background(), state, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrNoSource)

	boom := errors.New("boom")
	_, err = (&Exporter{Source: &countingSource{err: boom}, Renderer: renderer}).Run(context.Background(), state, &bytes.Buffer{})
	assert.ErrorIs(t, err, boom)

	_, err = (&Exporter{Source: &countingSource{lib: testLibrary()}}).Run(context.Background(), state, &bytes.Buffer{})
	assert.ErrorIs(t, err, render.ErrUnknownFormat)
}

func TestExporter_RenderError(t *testing.T) {
	renderer, err := render.New(render.FormatText)
	require.NoError(t, err)

	e := &Exporter{Source: &countingSource{lib: testLibrary()}, Renderer: renderer}
	_, err = e.Run(context.Background(), selection.NewState(nil, nil), failingWriter{})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "render document"))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }
