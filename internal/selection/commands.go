package selection

import (
	"errors"
	"fmt"

	"github.com/CEuchner/churchtools-song-export/internal/model"
)

var (
	// ErrDetailLimit is returned when a fifth detail column would be selected.
	ErrDetailLimit = fmt.Errorf("at most %d detail columns can be selected", model.MaxDetailColumns)

	// ErrNameRequired is returned when the name column would be deselected.
	ErrNameRequired = errors.New("the name column cannot be deselected")

	// ErrUnknownTag is returned for tag ids that are not in the catalog.
	ErrUnknownTag = errors.New("unknown tag")

	// ErrUnknownCategory is returned for category ids that are not in the catalog.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownDetail is returned for ids that are not in the detail catalog.
	ErrUnknownDetail = errors.New("unknown detail field")

	// ErrOutOfRange is returned for move positions outside the list.
	ErrOutOfRange = errors.New("position out of range")

	// ErrInvalidStyle is returned for font sizes below one or unknown alignments.
	ErrInvalidStyle = errors.New("invalid style")
)

// Command is one user action on the selection state.
//
// Commands are produced by the user interface and applied through a
// Controller. A command that returns an error leaves the state unchanged.
type Command interface {
	Apply(s *State) error
}

// ToggleCategory selects or deselects a category.
type ToggleCategory struct {
	ID int
}

func (c ToggleCategory) Apply(s *State) error {
	found := false
	for _, cat := range s.Categories {
		if cat.ID == c.ID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %d", ErrUnknownCategory, c.ID)
	}
	if !s.SelectedCategoryIDs.Remove(c.ID) {
		s.SelectedCategoryIDs.Add(c.ID)
	}
	return nil
}

// SelectAllCategories selects every category or clears the selection.
type SelectAllCategories struct {
	Selected bool
}

func (c SelectAllCategories) Apply(s *State) error {
	ids := make([]int, 0, len(s.Categories))
	if c.Selected {
		for _, cat := range s.Categories {
			ids = append(ids, cat.ID)
		}
	}
	s.SelectedCategoryIDs.Replace(ids)
	return nil
}

// ToggleTag selects or deselects a tag.
type ToggleTag struct {
	ID int
}

func (c ToggleTag) Apply(s *State) error {
	if _, ok := s.Tag(c.ID); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTag, c.ID)
	}
	if !s.SelectedTagIDs.Remove(c.ID) {
		s.SelectedTagIDs.Add(c.ID)
	}
	return nil
}

// SelectAllTags selects every tag or clears the selection.
type SelectAllTags struct {
	Selected bool
}

func (c SelectAllTags) Apply(s *State) error {
	ids := make([]int, 0, len(s.Tags))
	if c.Selected {
		for _, t := range s.OrderedTags {
			ids = append(ids, t.ID)
		}
	}
	s.SelectedTagIDs.Replace(ids)
	return nil
}

// MoveTag moves the tag at position From of the tag order to position To.
type MoveTag struct {
	From, To int
}

func (c MoveTag) Apply(s *State) error {
	return move(s.OrderedTags, c.From, c.To)
}

// ToggleDetail selects or deselects a detail column.
type ToggleDetail struct {
	ID model.DetailID
}

func (c ToggleDetail) Apply(s *State) error {
	if !model.IsDetailID(c.ID) {
		return fmt.Errorf("%w: %q", ErrUnknownDetail, c.ID)
	}
	if s.SelectedDetails.Has(c.ID) {
		if c.ID == model.DetailName {
			return ErrNameRequired
		}
		s.SelectedDetails.Remove(c.ID)
		return nil
	}
	if s.SelectedDetails.Len() >= model.MaxDetailColumns {
		return ErrDetailLimit
	}
	s.SelectedDetails.Add(c.ID)
	return nil
}

// MoveDetail moves the detail field at position From of the detail order to
// position To.
type MoveDetail struct {
	From, To int
}

func (c MoveDetail) Apply(s *State) error {
	return move(s.OrderedDetails, c.From, c.To)
}

// SetFormatting replaces the formatting of one detail column.
type SetFormatting struct {
	ID         model.DetailID
	Formatting Formatting
}

func (c SetFormatting) Apply(s *State) error {
	if !model.IsDetailID(c.ID) {
		return fmt.Errorf("%w: %q", ErrUnknownDetail, c.ID)
	}
	if c.Formatting.FontSize < 1 {
		return fmt.Errorf("%w: font size %d", ErrInvalidStyle, c.Formatting.FontSize)
	}
	if s.Formatting == nil {
		s.Formatting = make(map[model.DetailID]Formatting)
	}
	s.Formatting[c.ID] = c.Formatting
	return nil
}

// SetGrouping enables or disables alphabetical grouping for a section.
type SetGrouping struct {
	Context string
	Enabled bool
}

func (c SetGrouping) Apply(s *State) error {
	if s.Grouping == nil {
		s.Grouping = make(map[string]bool)
	}
	s.Grouping[c.Context] = c.Enabled
	return nil
}

// SetIncludeAllSongs toggles the all-songs section.
type SetIncludeAllSongs struct {
	Enabled bool
}

func (c SetIncludeAllSongs) Apply(s *State) error {
	s.IncludeAllSongs = c.Enabled
	return nil
}

// SetHeaderStyle replaces the section title style.
type SetHeaderStyle struct {
	Style HeaderStyle
}

func (c SetHeaderStyle) Apply(s *State) error {
	if !c.Style.Alignment.Valid() {
		return fmt.Errorf("%w: alignment %q", ErrInvalidStyle, c.Style.Alignment)
	}
	if c.Style.FontSize < 1 {
		return fmt.Errorf("%w: font size %d", ErrInvalidStyle, c.Style.FontSize)
	}
	s.Header = c.Style
	return nil
}

func move[E any](list []E, from, to int) error {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return fmt.Errorf("%w: move %d to %d in list of %d", ErrOutOfRange, from, to, len(list))
	}
	item := list[from]
	if from < to {
		copy(list[from:to], list[from+1:to+1])
	} else {
		copy(list[to+1:from+1], list[to:from])
	}
	list[to] = item
	return nil
}
