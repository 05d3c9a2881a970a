package selection

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/CEuchner/churchtools-song-export/internal/model"
)

// AllSongsContext is the grouping context key of the all-songs section.
const AllSongsContext = "all-songs"

const tagContextPrefix = "tag:"

// TagContext returns the grouping context key of the section for a tag.
func TagContext(tagID int) string {
	return tagContextPrefix + strconv.Itoa(tagID)
}

// ParseTagContext extracts the tag id from a context key created by
// TagContext.
func ParseTagContext(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, tagContextPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Alignment of section titles.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
)

// Valid reports whether a is a known alignment.
func (a Alignment) Valid() bool {
	return a == AlignLeft || a == AlignCenter
}

// HeaderStyle controls how section titles are rendered.
type HeaderStyle struct {
	Alignment Alignment
	FontSize  int
	Bold      bool
	Italic    bool
	Underline bool
	Boxed     bool
}

// Formatting is the cell style of one detail column.
type Formatting struct {
	Bold     bool
	Italic   bool
	FontSize int
}

// Defaults applied to every new session.
const (
	DefaultFontSize       = 10
	DefaultHeaderFontSize = 14
)

// DefaultDetails is the detail selection of a new session.
var DefaultDetails = []model.DetailID{model.DetailName, model.DetailAuthor, model.DetailCCLI}

// State is the live selection, ordering and formatting of one session.
//
// A State is owned by a single Controller. The settings codec and the
// document assembler receive it by reference and never keep it.
//
// Invariants:
//   - SelectedDetails holds at most model.MaxDetailColumns ids and always
//     contains model.DetailName.
//   - OrderedTags is a permutation of Tags.
//   - OrderedDetails is a permutation of the detail catalog.
//   - Formatting only holds catalog detail ids.
type State struct {
	// Tags is the authoritative tag catalog of the session.
	Tags []model.Tag

	// Categories is the category catalog of the session.
	Categories []model.Category

	SelectedCategoryIDs Set[int]
	SelectedTagIDs      Set[int]
	OrderedTags         []model.Tag

	SelectedDetails Set[model.DetailID]
	OrderedDetails  []model.DetailField
	Formatting      map[model.DetailID]Formatting

	// Grouping maps a context key (AllSongsContext or TagContext) to the
	// alphabetical grouping flag of that section. Stale keys are kept.
	Grouping map[string]bool

	IncludeAllSongs bool
	Header          HeaderStyle
}

// NewState creates the default state of a session for the given catalogs.
//
// Every category and tag is selected, DefaultDetails are selected, grouping
// is off everywhere and section titles are left aligned and bold.
func NewState(tags []model.Tag, categories []model.Category) *State {
	s := &State{
		Tags:           slices.Clone(tags),
		Categories:     slices.Clone(categories),
		OrderedTags:    slices.Clone(tags),
		OrderedDetails: model.DetailCatalog(),
		Formatting:     DefaultFormatting(),
		Grouping:       make(map[string]bool),
		Header: HeaderStyle{
			Alignment: AlignLeft,
			FontSize:  DefaultHeaderFontSize,
			Bold:      true,
		},
	}

	for _, c := range categories {
		s.SelectedCategoryIDs.Add(c.ID)
	}
	for _, t := range tags {
		s.SelectedTagIDs.Add(t.ID)
	}
	s.SelectedDetails = NewSet(DefaultDetails...)

	return s
}

// DefaultFormatting returns the cell formatting of a new session: every
// column at DefaultFontSize, the name column bold.
func DefaultFormatting() map[model.DetailID]Formatting {
	out := make(map[model.DetailID]Formatting)
	for _, field := range model.DetailCatalog() {
		out[field.ID] = Formatting{FontSize: DefaultFontSize, Bold: field.ID == model.DetailName}
	}
	return out
}

// FormattingOf returns the formatting of a detail column, falling back to the
// default when none is set.
func (s *State) FormattingOf(id model.DetailID) Formatting {
	if f, ok := s.Formatting[id]; ok {
		return f
	}
	return Formatting{FontSize: DefaultFontSize}
}

// Grouped reports whether alphabetical grouping is enabled for a context.
func (s *State) Grouped(context string) bool {
	return s.Grouping[context]
}

// Tag looks up a tag of the catalog.
func (s *State) Tag(id int) (model.Tag, bool) {
	for _, t := range s.Tags {
		if t.ID == id {
			return t, true
		}
	}
	return model.Tag{}, false
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	out := *s
	out.Tags = slices.Clone(s.Tags)
	out.Categories = slices.Clone(s.Categories)
	out.SelectedCategoryIDs = s.SelectedCategoryIDs.Clone()
	out.SelectedTagIDs = s.SelectedTagIDs.Clone()
	out.OrderedTags = slices.Clone(s.OrderedTags)
	out.SelectedDetails = s.SelectedDetails.Clone()
	out.OrderedDetails = slices.Clone(s.OrderedDetails)
	out.Formatting = maps.Clone(s.Formatting)
	out.Grouping = maps.Clone(s.Grouping)
	return &out
}
