package assemble

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/CEuchner/churchtools-song-export/internal/fields"
	"github.com/CEuchner/churchtools-song-export/internal/model"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
)

// Section titles that do not come from a tag.
const (
	AllSongsTitle = "All Songs"
	FallbackTitle = "Songs"
)

// DefaultLanguage is used for collation and case mapping unless configured
// otherwise.
var DefaultLanguage = language.German

// Cell is one formatted table cell.
type Cell struct {
	Text     string
	FontSize int
	Bold     bool
	Italic   bool
}

// Row is one table row. Spacer rows separate letter groups and hold cells
// with empty text.
type Row struct {
	Cells  []Cell
	Spacer bool
}

// Section is one titled block of the exported document.
type Section struct {
	Title string

	// Context is the grouping context key the section was assembled with.
	Context string

	Rows []Row
}

// SongCount returns the number of non-spacer rows.
func (s Section) SongCount() int {
	n := 0
	for _, row := range s.Rows {
		if !row.Spacer {
			n++
		}
	}
	return n
}

// Assembler turns songs and a selection state into document sections.
//
// An Assembler is not safe for concurrent use.
type Assembler struct {
	collator *collate.Collator
	upper    cases.Caser
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLanguage sets the language used to sort names and to compare their
// first letters.
func WithLanguage(tag language.Tag) Option {
	return func(a *Assembler) {
		a.collator = collate.New(tag)
		a.upper = cases.Upper(tag)
	}
}

// New creates an Assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{}
	WithLanguage(DefaultLanguage)(a)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds the sections of a document.
//
// Sections come in a fixed order: the all-songs section when
// state.IncludeAllSongs is set, then one section per selected tag in
// state.OrderedTags order. Tags without songs produce no section. When no
// section was produced at all, a single fallback section lists every song.
//
// songs is expected to be category-filtered already.
func (a *Assembler) Assemble(songs []model.Song, state *selection.State) []Section {
	columns := Columns(state)
	var sections []Section

	if state.IncludeAllSongs {
		sections = append(sections, a.section(AllSongsTitle, selection.AllSongsContext, songs, columns, state))
	}

	for _, tag := range state.OrderedTags {
		if !state.SelectedTagIDs.Has(tag.ID) {
			continue
		}
		tagged := songsWithTag(songs, tag.ID)
		if len(tagged) == 0 {
			continue
		}
		sections = append(sections, a.section(tag.Name, selection.TagContext(tag.ID), tagged, columns, state))
	}

	if len(sections) == 0 {
		sections = append(sections, a.section(FallbackTitle, selection.AllSongsContext, songs, columns, state))
	}

	return sections
}

// Columns returns the detail columns of the document: the name column first,
// then the other selected fields in state.OrderedDetails order, cut to
// model.MaxDetailColumns.
func Columns(state *selection.State) []model.DetailField {
	name, _ := model.LookupDetail(model.DetailName)
	columns := []model.DetailField{name}

	for _, field := range state.OrderedDetails {
		if len(columns) == model.MaxDetailColumns {
			break
		}
		if field.ID == model.DetailName || !state.SelectedDetails.Has(field.ID) {
			continue
		}
		columns = append(columns, field)
	}

	return columns
}

func songsWithTag(songs []model.Song, tagID int) []model.Song {
	var out []model.Song
	for i := range songs {
		if songs[i].HasTag(tagID) {
			out = append(out, songs[i])
		}
	}
	return out
}

func (a *Assembler) section(title, context string, songs []model.Song, columns []model.DetailField, state *selection.State) Section {
	grouped := state.Grouped(context)

	ordered := make([]model.Song, len(songs))
	copy(ordered, songs)
	if grouped {
		a.sortByName(ordered)
	}

	sec := Section{Title: title, Context: context}
	prev := ""
	for i := range ordered {
		if grouped {
			letter := a.firstLetter(&ordered[i])
			if i > 0 && letter != prev {
				sec.Rows = append(sec.Rows, spacerRow(len(columns)))
			}
			prev = letter
		}
		sec.Rows = append(sec.Rows, songRow(&ordered[i], columns, state))
	}

	return sec
}

func (a *Assembler) sortByName(songs []model.Song) {
	sort.SliceStable(songs, func(i, j int) bool {
		return a.collator.CompareString(
			fields.Render(&songs[i], model.DetailName),
			fields.Render(&songs[j], model.DetailName),
		) < 0
	})
}

func (a *Assembler) firstLetter(song *model.Song) string {
	for _, r := range fields.Render(song, model.DetailName) {
		return a.upper.String(string(r))
	}
	return ""
}

func songRow(song *model.Song, columns []model.DetailField, state *selection.State) Row {
	cells := make([]Cell, len(columns))
	for i, column := range columns {
		f := state.FormattingOf(column.ID)
		cells[i] = Cell{
			Text:     fields.Render(song, column.ID),
			FontSize: f.FontSize,
			Bold:     f.Bold,
			Italic:   f.Italic,
		}
	}
	return Row{Cells: cells}
}

func spacerRow(width int) Row {
	return Row{Cells: make([]Cell, width), Spacer: true}
}

// Assemble builds document sections with the default language.
func Assemble(songs []model.Song, state *selection.State) []Section {
	return New().Assemble(songs, state)
}
