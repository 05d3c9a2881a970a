package settings

import (
	"encoding/json"
	"fmt"

	"github.com/CEuchner/churchtools-song-export/internal/model"
)

// Version is the version stamped on every document built by this package.
const Version = "1.0"

// TimestampFormat is the ISO-8601 layout of Document.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Document is the transport form of a selection state.
//
// Sets are flattened to arrays and maps to arrays of [key, value] pairs:
//
//	{
//	  "version": "1.0",
//	  "timestamp": "2024-03-01T09:30:00.000Z",
//	  "selectedTagIds": [3, 1],
//	  "detailFormatting": [["name", {"bold": true, "italic": false, "fontSize": 10}]],
//	  "alphabeticalGroupingPerContext": [["tag:3", true]],
//	  ...
//	}
type Document struct {
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`

	SelectedCategoryIDs []int            `json:"selectedCategoryIds"`
	SelectedTagIDs      []int            `json:"selectedTagIds"`
	OrderedTags         []int            `json:"orderedTags"`
	SelectedDetails     []model.DetailID `json:"selectedDetails"`
	OrderedDetails      []model.DetailID `json:"orderedDetails"`

	DetailFormatting               []FormattingEntry `json:"detailFormatting"`
	AlphabeticalGroupingPerContext []GroupingEntry   `json:"alphabeticalGroupingPerContext"`

	IncludeAllSongsList bool               `json:"includeAllSongsList"`
	HeaderStyleOptions  HeaderStyleOptions `json:"headerStyleOptions"`
}

// Formatting is the transport form of a column formatting.
type Formatting struct {
	Bold     bool `json:"bold"`
	Italic   bool `json:"italic"`
	FontSize int  `json:"fontSize"`
}

// HeaderStyleOptions is the transport form of the section title style.
type HeaderStyleOptions struct {
	Alignment string `json:"alignment"`
	FontSize  int    `json:"fontSize"`
	Bold      bool   `json:"bold"`
	Italic    bool   `json:"italic"`
	Underline bool   `json:"underline"`
	InBox     bool   `json:"inBox"`
}

// FormattingEntry is one [detailId, formatting] pair.
type FormattingEntry struct {
	Detail     model.DetailID
	Formatting Formatting
}

// MarshalJSON encodes the entry as a two element array.
func (e FormattingEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Detail, e.Formatting})
}

// UnmarshalJSON decodes a two element array.
func (e *FormattingEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("formatting entry: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Detail); err != nil {
		return fmt.Errorf("formatting entry key: %w", err)
	}
	if err := json.Unmarshal(pair[1], &e.Formatting); err != nil {
		return fmt.Errorf("formatting entry value: %w", err)
	}
	return nil
}

// GroupingEntry is one [contextKey, enabled] pair.
type GroupingEntry struct {
	Context string
	Enabled bool
}

// MarshalJSON encodes the entry as a two element array.
func (e GroupingEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Context, e.Enabled})
}

// UnmarshalJSON decodes a two element array.
func (e *GroupingEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("grouping entry: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Context); err != nil {
		return fmt.Errorf("grouping entry key: %w", err)
	}
	if err := json.Unmarshal(pair[1], &e.Enabled); err != nil {
		return fmt.Errorf("grouping entry value: %w", err)
	}
	return nil
}
