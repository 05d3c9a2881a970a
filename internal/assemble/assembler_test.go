package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/CEuchner/churchtools-song-export/internal/model"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
)

var (
	praise  = model.Tag{ID: 1, Name: "Praise"}
	worship = model.Tag{ID: 2, Name: "Worship"}
	advent  = model.Tag{ID: 3, Name: "Advent"}
)

func testSongs() []model.Song {
	return []model.Song{
		{ID: 1, Name: "Wunderbarer Hirte", Tags: []model.Tag{worship}},
		{ID: 2, Name: "amazing Grace", Author: "John Newton", Tags: []model.Tag{praise, worship}},
		{ID: 3, Name: "Abendlied", Tags: []model.Tag{praise}},
		{ID: 4, Name: "Band of Brothers", Tags: []model.Tag{praise}},
		{ID: 5, Name: "Anker", Tags: []model.Tag{worship}},
	}
}

func testState() *selection.State {
	return selection.NewState([]model.Tag{praise, worship, advent}, nil)
}

func names(sec Section) []string {
	var out []string
	for _, row := range sec.Rows {
		if row.Spacer {
			out = append(out, "--")
			continue
		}
		out = append(out, row.Cells[0].Text)
	}
	return out
}

func titles(sections []Section) []string {
	out := make([]string, len(sections))
	for i, sec := range sections {
		out[i] = sec.Title
	}
	return out
}

func TestAssemble_SectionOrder(t *testing.T) {
	s := testState()
	s.IncludeAllSongs = true
	require.NoError(t, selection.MoveTag{From: 1, To: 0}.Apply(s))

	sections := New().Assemble(testSongs(), s)

	// Advent has no songs and produces no section.
	assert.Equal(t, []string{AllSongsTitle, "Worship", "Praise"}, titles(sections))
	assert.Equal(t, selection.AllSongsContext, sections[0].Context)
	assert.Equal(t, "tag:2", sections[1].Context)
	assert.Equal(t, 5, sections[0].SongCount())
	assert.Equal(t, []string{"Wunderbarer Hirte", "amazing Grace", "Anker"}, names(sections[1]))
	assert.Equal(t, []string{"amazing Grace", "Abendlied", "Band of Brothers"}, names(sections[2]))
}

func TestAssemble_DeselectedTagsAreSkipped(t *testing.T) {
	s := testState()
	require.NoError(t, selection.ToggleTag{ID: praise.ID}.Apply(s))

	sections := New().Assemble(testSongs(), s)
	assert.Equal(t, []string{"Worship"}, titles(sections))
}

func TestAssemble_Fallback(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *selection.State)
	}{
		{"no tags selected", func(s *selection.State) { s.SelectedTagIDs.Replace(nil) }},
		{"only empty tags selected", func(s *selection.State) { s.SelectedTagIDs.Replace([]int{advent.ID}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testState()
			tt.setup(s)

			sections := New().Assemble(testSongs(), s)
			require.Len(t, sections, 1)
			assert.Equal(t, FallbackTitle, sections[0].Title)
			assert.Equal(t, 5, sections[0].SongCount())
		})
	}
}

func TestAssemble_NoFallbackWithAllSongs(t *testing.T) {
	s := testState()
	s.SelectedTagIDs.Replace(nil)
	s.IncludeAllSongs = true

	sections := New().Assemble(testSongs(), s)
	assert.Equal(t, []string{AllSongsTitle}, titles(sections))
}

func TestAssemble_Grouping(t *testing.T) {
	s := testState()
	s.IncludeAllSongs = true
	s.SelectedTagIDs.Replace(nil)
	s.Grouping[selection.AllSongsContext] = true

	sections := New().Assemble(testSongs(), s)
	require.Len(t, sections, 1)

	assert.Equal(t, []string{
		"Abendlied", "amazing Grace", "Anker",
		"--",
		"Band of Brothers",
		"--",
		"Wunderbarer Hirte",
	}, names(sections[0]))
}

func TestAssemble_GroupingIsPerSection(t *testing.T) {
	s := testState()
	s.IncludeAllSongs = true
	s.Grouping[selection.TagContext(praise.ID)] = true

	sections := New().Assemble(testSongs(), s)
	require.Len(t, sections, 3)

	assert.Equal(t, []string{"Wunderbarer Hirte", "amazing Grace", "Abendlied", "Band of Brothers", "Anker"}, names(sections[0]))
	assert.Equal(t, []string{"Abendlied", "amazing Grace", "--", "Band of Brothers"}, names(sections[1]))
	assert.Equal(t, []string{"Wunderbarer Hirte", "amazing Grace", "Anker"}, names(sections[2]))
}

func TestAssemble_GroupingCollation(t *testing.T) {
	songs := []model.Song{{ID: 1, Name: "Ufer"}, {ID: 2, Name: "Ärger los"}, {ID: 3, Name: "Anker"}, {ID: 4, Name: "über allem"}}
	s := selection.NewState(nil, nil)
	s.Grouping[selection.AllSongsContext] = true

	sections := New().Assemble(songs, s)

	// Umlauts sort next to their base letter but start their own letter group.
	assert.Equal(t, []string{"Anker", "--", "Ärger los", "--", "über allem", "--", "Ufer"}, names(sections[0]))
}

func TestAssemble_GroupingIsStable(t *testing.T) {
	songs := []model.Song{
		{ID: 1, Name: "Holy", Author: "first"},
		{ID: 2, Name: "Amen"},
		{ID: 3, Name: "Holy", Author: "second"},
	}
	s := selection.NewState(nil, nil)
	s.Grouping[selection.AllSongsContext] = true
	require.NoError(t, selection.ToggleDetail{ID: model.DetailCCLI}.Apply(s))

	sections := New().Assemble(songs, s)
	require.Len(t, sections, 1)
	rows := sections[0].Rows
	require.Len(t, rows, 4)
	assert.Equal(t, "Amen", rows[0].Cells[0].Text)
	assert.True(t, rows[1].Spacer)
	assert.Equal(t, "first", rows[2].Cells[1].Text)
	assert.Equal(t, "second", rows[3].Cells[1].Text)
}

func TestAssemble_SpacerNeverFirst(t *testing.T) {
	s := testState()
	s.Grouping[selection.TagContext(worship.ID)] = true

	for _, sec := range New().Assemble(testSongs(), s) {
		require.NotEmpty(t, sec.Rows)
		assert.False(t, sec.Rows[0].Spacer, sec.Title)
	}
}

func TestAssemble_UngroupedHasNoSpacers(t *testing.T) {
	s := testState()
	s.IncludeAllSongs = true

	for _, sec := range New().Assemble(testSongs(), s) {
		for _, row := range sec.Rows {
			assert.False(t, row.Spacer)
		}
	}
}

func TestAssemble_EmptyNamesGroupUnderPlaceholder(t *testing.T) {
	songs := []model.Song{{ID: 1, Name: ""}, {ID: 2, Name: "Zion"}, {ID: 3, Name: "Alpha"}}
	s := selection.NewState(nil, nil)
	s.Grouping[selection.AllSongsContext] = true

	sections := New(WithLanguage(language.English)).Assemble(songs, s)
	assert.Equal(t, []string{"Alpha", "--", "Untitled", "--", "Zion"}, names(sections[0]))
}

func TestColumns(t *testing.T) {
	s := testState()
	assert.Equal(t, []model.DetailID{model.DetailName, model.DetailAuthor, model.DetailCCLI}, columnIDs(Columns(s)))

	// Five selected ids with name last in the order still yield four columns
	// with name first.
	s.SelectedDetails.Replace([]model.DetailID{
		model.DetailKey, model.DetailTempo, model.DetailDuration, model.DetailAuthor, model.DetailName,
	})
	require.NoError(t, selection.MoveDetail{From: 0, To: 11}.Apply(s))

	cols := columnIDs(Columns(s))
	assert.Len(t, cols, model.MaxDetailColumns)
	assert.Equal(t, []model.DetailID{model.DetailName, model.DetailAuthor, model.DetailKey, model.DetailTempo}, cols)
}

func TestAssemble_CellFormatting(t *testing.T) {
	s := testState()
	s.IncludeAllSongs = true
	require.NoError(t, selection.SetFormatting{ID: model.DetailAuthor, Formatting: selection.Formatting{Italic: true, FontSize: 8}}.Apply(s))

	sections := New().Assemble(testSongs()[1:2], s)
	cells := sections[0].Rows[0].Cells
	require.Len(t, cells, 3)

	assert.Equal(t, Cell{Text: "amazing Grace", FontSize: 10, Bold: true}, cells[0])
	assert.Equal(t, Cell{Text: "John Newton", FontSize: 8, Italic: true}, cells[1])
	assert.Equal(t, Cell{Text: "", FontSize: 10}, cells[2])
}

func TestAssemble_StaleGroupingKeysIgnored(t *testing.T) {
	s := testState()
	s.Grouping["tag:999"] = true
	s.Grouping["bogus"] = true

	sections := New().Assemble(testSongs(), s)
	assert.Equal(t, []string{"Praise", "Worship"}, titles(sections))
	for _, sec := range sections {
		assert.Zero(t, len(sec.Rows)-sec.SongCount())
	}
}

func TestAssemble_DoesNotReorderInput(t *testing.T) {
	songs := testSongs()
	s := testState()
	s.IncludeAllSongs = true
	s.Grouping[selection.AllSongsContext] = true

	New().Assemble(songs, s)
	assert.Equal(t, "Wunderbarer Hirte", songs[0].Name)
}

func columnIDs(fields []model.DetailField) []model.DetailID {
	out := make([]model.DetailID, len(fields))
	for i, f := range fields {
		out[i] = f.ID
	}
	return out
}
