package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/CEuchner/churchtools-song-export/internal/model"
	"github.com/CEuchner/churchtools-song-export/internal/ordering"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
)

// ErrMalformedDocument is returned when a settings document is not a JSON
// object. It is the only error Apply reports.
var ErrMalformedDocument = errors.New("malformed settings document")

func tagID(t model.Tag) int                       { return t.ID }
func detailID(f model.DetailField) model.DetailID { return f.ID }

// Build flattens the state into a transport document.
//
// A zero timestamp stamps the current time. Build does not modify the state.
// Formatting entries follow the detail catalog order and grouping entries are
// sorted by context key, so equal states build equal documents.
func Build(s *selection.State, timestamp time.Time) Document {
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	doc := Document{
		Version:             Version,
		Timestamp:           timestamp.UTC().Format(TimestampFormat),
		SelectedCategoryIDs: s.SelectedCategoryIDs.Items(),
		SelectedTagIDs:      s.SelectedTagIDs.Items(),
		OrderedTags:         ordering.Keys(s.OrderedTags, tagID),
		SelectedDetails:     s.SelectedDetails.Items(),
		OrderedDetails:      ordering.Keys(s.OrderedDetails, detailID),
		IncludeAllSongsList: s.IncludeAllSongs,
		HeaderStyleOptions: HeaderStyleOptions{
			Alignment: string(s.Header.Alignment),
			FontSize:  s.Header.FontSize,
			Bold:      s.Header.Bold,
			Italic:    s.Header.Italic,
			Underline: s.Header.Underline,
			InBox:     s.Header.Boxed,
		},
	}

	doc.DetailFormatting = make([]FormattingEntry, 0, len(s.Formatting))
	for _, field := range model.DetailCatalog() {
		f, ok := s.Formatting[field.ID]
		if !ok {
			continue
		}
		doc.DetailFormatting = append(doc.DetailFormatting, FormattingEntry{
			Detail:     field.ID,
			Formatting: Formatting{Bold: f.Bold, Italic: f.Italic, FontSize: f.FontSize},
		})
	}

	contexts := make([]string, 0, len(s.Grouping))
	for key := range s.Grouping {
		contexts = append(contexts, key)
	}
	sort.Strings(contexts)
	doc.AlphabeticalGroupingPerContext = make([]GroupingEntry, 0, len(contexts))
	for _, key := range contexts {
		doc.AlphabeticalGroupingPerContext = append(doc.AlphabeticalGroupingPerContext, GroupingEntry{
			Context: key,
			Enabled: s.Grouping[key],
		})
	}

	return doc
}

// Apply decodes a settings document and applies it onto the state.
//
// Every recognized top-level field that is present replaces its part of the
// state; absent or unrecognized fields leave the state untouched. Values of
// the wrong type are ignored, unknown ids are dropped and orders are
// reconciled against the catalogs of the state. Applying the same document
// twice gives the same result as applying it once.
//
// Only a document that is not a JSON object is rejected, with an error
// wrapping ErrMalformedDocument. The state is not modified in that case.
func Apply(data []byte, s *selection.State) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}

	if ids, ok := decodeInts(fields["selectedCategoryIds"]); ok {
		s.SelectedCategoryIDs.Replace(ids)
	}
	if ids, ok := decodeInts(fields["selectedTagIds"]); ok {
		s.SelectedTagIDs.Replace(ids)
	}
	if ids, ok := decodeInts(fields["orderedTags"]); ok {
		s.OrderedTags = ordering.Reconcile(ids, s.Tags, tagID)
	}
	if ids, ok := decodeDetailIDs(fields["selectedDetails"]); ok {
		s.SelectedDetails.Replace(withName(ids))
	}
	if ids, ok := decodeDetailIDs(fields["orderedDetails"]); ok {
		s.OrderedDetails = ordering.Reconcile(ids, model.DetailCatalog(), detailID)
	}
	if formatting, ok := decodeFormatting(fields["detailFormatting"]); ok {
		s.Formatting = formatting
	}
	if grouping, ok := decodeGrouping(fields["alphabeticalGroupingPerContext"]); ok {
		s.Grouping = grouping
	}
	if raw, ok := fields["includeAllSongsList"]; ok {
		var include bool
		if json.Unmarshal(raw, &include) == nil && !isNull(raw) {
			s.IncludeAllSongs = include
		}
	}
	if raw, ok := fields["headerStyleOptions"]; ok {
		s.Header = mergeHeaderStyle(s.Header, raw)
	}

	return nil
}

// ApplyDocument applies an already decoded document. All of its fields are
// treated as present.
func ApplyDocument(doc Document, s *selection.State) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode settings document: %w", err)
	}
	return Apply(data, s)
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrMalformedDocument)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return fields, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeArray returns the elements of a JSON array. ok is false when raw is
// absent or not an array.
func decodeArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	if raw == nil || isNull(raw) {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func decodeInts(raw json.RawMessage) ([]int, bool) {
	items, ok := decodeArray(raw)
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		var id int
		if json.Unmarshal(item, &id) == nil && !isNull(item) {
			out = append(out, id)
		}
	}
	return out, true
}

// decodeDetailIDs keeps the string elements that name catalog fields.
func decodeDetailIDs(raw json.RawMessage) ([]model.DetailID, bool) {
	items, ok := decodeArray(raw)
	if !ok {
		return nil, false
	}
	out := make([]model.DetailID, 0, len(items))
	for _, item := range items {
		var id model.DetailID
		if json.Unmarshal(item, &id) != nil || !model.IsDetailID(id) {
			continue
		}
		out = append(out, id)
	}
	return out, true
}

// withName puts the mandatory name column in front when it is missing.
func withName(ids []model.DetailID) []model.DetailID {
	if slices.Contains(ids, model.DetailName) {
		return ids
	}
	return append([]model.DetailID{model.DetailName}, ids...)
}

func decodeFormatting(raw json.RawMessage) (map[model.DetailID]selection.Formatting, bool) {
	items, ok := decodeArray(raw)
	if !ok {
		return nil, false
	}
	out := make(map[model.DetailID]selection.Formatting, len(items))
	for _, item := range items {
		var entry FormattingEntry
		if json.Unmarshal(item, &entry) != nil || !model.IsDetailID(entry.Detail) {
			continue
		}
		size := entry.Formatting.FontSize
		if size < 1 {
			size = selection.DefaultFontSize
		}
		out[entry.Detail] = selection.Formatting{
			Bold:     entry.Formatting.Bold,
			Italic:   entry.Formatting.Italic,
			FontSize: size,
		}
	}
	return out, true
}

func decodeGrouping(raw json.RawMessage) (map[string]bool, bool) {
	items, ok := decodeArray(raw)
	if !ok {
		return nil, false
	}
	out := make(map[string]bool, len(items))
	for _, item := range items {
		var entry GroupingEntry
		if json.Unmarshal(item, &entry) != nil {
			continue
		}
		out[entry.Context] = entry.Enabled
	}
	return out, true
}

// mergeHeaderStyle copies every well-typed field of raw onto style.
func mergeHeaderStyle(style selection.HeaderStyle, raw json.RawMessage) selection.HeaderStyle {
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil {
		return style
	}

	if v, ok := fields["alignment"]; ok {
		var alignment selection.Alignment
		if json.Unmarshal(v, &alignment) == nil && alignment.Valid() {
			style.Alignment = alignment
		}
	}
	if v, ok := fields["fontSize"]; ok {
		var size int
		if json.Unmarshal(v, &size) == nil && size > 0 {
			style.FontSize = size
		}
	}

	flags := []struct {
		key string
		dst *bool
	}{
		{"bold", &style.Bold},
		{"italic", &style.Italic},
		{"underline", &style.Underline},
		{"inBox", &style.Boxed},
	}
	for _, flag := range flags {
		v, ok := fields[flag.key]
		if !ok || isNull(v) {
			continue
		}
		var b bool
		if json.Unmarshal(v, &b) == nil {
			*flag.dst = b
		}
	}

	return style
}
