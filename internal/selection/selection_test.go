package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CEuchner/churchtools-song-export/internal/model"
)

func testState() *State {
	tags := []model.Tag{{ID: 1, Name: "Praise"}, {ID: 2, Name: "Worship"}, {ID: 3, Name: "Hymn"}}
	cats := []model.Category{{ID: 10, Name: "Songs"}, {ID: 11, Name: "Liturgy"}}
	return NewState(tags, cats)
}

func tagIDs(tags []model.Tag) []int {
	out := make([]int, len(tags))
	for i, t := range tags {
		out[i] = t.ID
	}
	return out
}

func detailIDs(fields []model.DetailField) []model.DetailID {
	out := make([]model.DetailID, len(fields))
	for i, f := range fields {
		out[i] = f.ID
	}
	return out
}

func TestNewState_Defaults(t *testing.T) {
	s := testState()

	assert.Equal(t, []int{10, 11}, s.SelectedCategoryIDs.Items())
	assert.Equal(t, []int{1, 2, 3}, s.SelectedTagIDs.Items())
	assert.Equal(t, []int{1, 2, 3}, tagIDs(s.OrderedTags))
	assert.Equal(t, DefaultDetails, s.SelectedDetails.Items())
	assert.Len(t, s.OrderedDetails, 12)
	assert.Len(t, s.Formatting, 12)
	assert.True(t, s.Formatting[model.DetailName].Bold)
	assert.False(t, s.IncludeAllSongs)
	assert.False(t, s.Grouped(AllSongsContext))
	assert.Equal(t, HeaderStyle{Alignment: AlignLeft, FontSize: DefaultHeaderFontSize, Bold: true}, s.Header)
}

func TestSet_KeepsInsertionOrder(t *testing.T) {
	s := NewSet(3, 1, 3, 2)
	assert.Equal(t, []int{3, 1, 2}, s.Items())
	assert.True(t, s.Remove(1))
	assert.False(t, s.Remove(1))
	assert.True(t, s.Add(1))
	assert.Equal(t, []int{3, 2, 1}, s.Items())

	var zero Set[string]
	assert.False(t, zero.Has("x"))
	assert.True(t, zero.Add("x"))
	assert.Equal(t, 1, zero.Len())
}

func TestToggleDetail(t *testing.T) {
	s := testState()

	require.NoError(t, ToggleDetail{ID: model.DetailKey}.Apply(s))
	assert.Equal(t, 4, s.SelectedDetails.Len())

	err := ToggleDetail{ID: model.DetailTempo}.Apply(s)
	assert.ErrorIs(t, err, ErrDetailLimit)
	assert.False(t, s.SelectedDetails.Has(model.DetailTempo))

	assert.ErrorIs(t, ToggleDetail{ID: model.DetailName}.Apply(s), ErrNameRequired)
	assert.True(t, s.SelectedDetails.Has(model.DetailName))

	require.NoError(t, ToggleDetail{ID: model.DetailAuthor}.Apply(s))
	assert.False(t, s.SelectedDetails.Has(model.DetailAuthor))

	assert.ErrorIs(t, ToggleDetail{ID: "lyrics"}.Apply(s), ErrUnknownDetail)
}

func TestToggleTagAndCategory(t *testing.T) {
	s := testState()

	require.NoError(t, ToggleTag{ID: 2}.Apply(s))
	assert.Equal(t, []int{1, 3}, s.SelectedTagIDs.Items())
	require.NoError(t, ToggleTag{ID: 2}.Apply(s))
	assert.True(t, s.SelectedTagIDs.Has(2))
	assert.ErrorIs(t, ToggleTag{ID: 99}.Apply(s), ErrUnknownTag)

	require.NoError(t, ToggleCategory{ID: 10}.Apply(s))
	assert.Equal(t, []int{11}, s.SelectedCategoryIDs.Items())
	assert.ErrorIs(t, ToggleCategory{ID: 99}.Apply(s), ErrUnknownCategory)

	require.NoError(t, SelectAllTags{Selected: false}.Apply(s))
	assert.Equal(t, 0, s.SelectedTagIDs.Len())
	require.NoError(t, SelectAllCategories{Selected: true}.Apply(s))
	assert.Equal(t, 2, s.SelectedCategoryIDs.Len())
}

func TestMoveTag(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []int
		wantErr  bool
	}{
		{"down", 0, 2, []int{2, 3, 1}, false},
		{"up", 2, 0, []int{3, 1, 2}, false},
		{"same position", 1, 1, []int{1, 2, 3}, false},
		{"out of range", 0, 3, []int{1, 2, 3}, true},
		{"negative", -1, 0, []int{1, 2, 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testState()
			err := MoveTag{From: tt.from, To: tt.to}.Apply(s)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutOfRange)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, tagIDs(s.OrderedTags))
		})
	}
}

func TestMoveDetail(t *testing.T) {
	s := testState()
	require.NoError(t, MoveDetail{From: 11, To: 1}.Apply(s))
	ids := detailIDs(s.OrderedDetails)
	assert.Equal(t, model.DetailName, ids[0])
	assert.Equal(t, model.DetailDescription, ids[1])
	assert.Equal(t, model.DetailAuthor, ids[2])
}

func TestStyleCommands(t *testing.T) {
	s := testState()

	require.NoError(t, SetFormatting{ID: model.DetailKey, Formatting: Formatting{Italic: true, FontSize: 12}}.Apply(s))
	assert.Equal(t, Formatting{Italic: true, FontSize: 12}, s.FormattingOf(model.DetailKey))
	assert.ErrorIs(t, SetFormatting{ID: model.DetailKey, Formatting: Formatting{FontSize: 0}}.Apply(s), ErrInvalidStyle)
	assert.ErrorIs(t, SetFormatting{ID: "lyrics", Formatting: Formatting{FontSize: 8}}.Apply(s), ErrUnknownDetail)

	require.NoError(t, SetGrouping{Context: TagContext(2), Enabled: true}.Apply(s))
	assert.True(t, s.Grouped("tag:2"))

	require.NoError(t, SetIncludeAllSongs{Enabled: true}.Apply(s))
	assert.True(t, s.IncludeAllSongs)

	style := HeaderStyle{Alignment: AlignCenter, FontSize: 18, Underline: true, Boxed: true}
	require.NoError(t, SetHeaderStyle{Style: style}.Apply(s))
	assert.Equal(t, style, s.Header)
	assert.ErrorIs(t, SetHeaderStyle{Style: HeaderStyle{Alignment: "right", FontSize: 10}}.Apply(s), ErrInvalidStyle)
}

func TestParseTagContext(t *testing.T) {
	id, ok := ParseTagContext(TagContext(42))
	assert.True(t, ok)
	assert.Equal(t, 42, id)

	_, ok = ParseTagContext(AllSongsContext)
	assert.False(t, ok)
	_, ok = ParseTagContext("tag:abc")
	assert.False(t, ok)
}

func TestController_RestoreIsAtomic(t *testing.T) {
	ctrl := NewController(testState(), nil)

	err := ctrl.Restore(func(s *State) error {
		s.IncludeAllSongs = true
		s.SelectedTagIDs.Replace(nil)
		return errors.New("boom")
	})
	require.Error(t, err)

	snap := ctrl.Snapshot()
	assert.False(t, snap.IncludeAllSongs)
	assert.Equal(t, 3, snap.SelectedTagIDs.Len())

	require.NoError(t, ctrl.Restore(func(s *State) error {
		s.IncludeAllSongs = true
		return nil
	}))
	assert.True(t, ctrl.Snapshot().IncludeAllSongs)
}

func TestController_Dispatch(t *testing.T) {
	ctrl := NewController(testState(), nil)

	require.NoError(t, ctrl.Dispatch(ToggleTag{ID: 1}))
	assert.ErrorIs(t, ctrl.Dispatch(ToggleDetail{ID: model.DetailName}), ErrNameRequired)

	snap := ctrl.Snapshot()
	assert.False(t, snap.SelectedTagIDs.Has(1))

	// Snapshots are independent of the live state.
	snap.SelectedTagIDs.Add(1)
	assert.False(t, ctrl.Snapshot().SelectedTagIDs.Has(1))
}
