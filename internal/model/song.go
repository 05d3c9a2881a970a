package model

import (
	"bytes"
	"encoding/json"
)

// Song represents one song record of the library.
//
// Song is owned by the data source and treated as read-only by the rest of
// the application. Optional text fields are empty when absent.
//
// Example:
//
//	song := Song{
//	    ID:     42,
//	    Name:   "Amazing Grace",
//	    Author: "John Newton",
//	    Tags:   []Tag{{ID: 1, Name: "Hymn"}},
//	    Arrangements: []Arrangement{
//	        {ID: 7, Key: "G", Tempo: 72, IsDefault: true},
//	    },
//	}
type Song struct {
	// ID is the identity of the song in its source.
	ID int `json:"id"`

	// Name is the song title. Empty names render as a placeholder.
	Name string `json:"name"`

	// Author lists the writers of the song.
	Author string `json:"author,omitempty"`

	// Copyright is the copyright notice without the leading glyph.
	Copyright string `json:"copyright,omitempty"`

	// CCLI is the licensing number of the song.
	CCLI string `json:"ccli,omitempty"`

	// Category is the song category, nil when the song has none.
	Category *Category `json:"category,omitempty"`

	// Tags are the tags of the song in the order of the source.
	Tags []Tag `json:"tags,omitempty"`

	// Arrangements are the musical renderings of the song in list order.
	Arrangements []Arrangement `json:"arrangements,omitempty"`
}

// HasTag reports whether the song carries the tag with the given id.
func (s *Song) HasTag(id int) bool {
	for _, tag := range s.Tags {
		if tag.ID == id {
			return true
		}
	}
	return false
}

// Arrangement is one musical rendering of a song.
//
// Several arrangements may be marked as default, or none at all. Code that
// needs the representative arrangement must go through the field resolver
// instead of picking one itself.
type Arrangement struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`

	// Key is the musical key, e.g. "G" or "Ebm".
	Key string `json:"key,omitempty"`

	// Tempo in beats per minute. Zero or negative means unknown.
	Tempo int `json:"tempo,omitempty"`

	// Duration in seconds. Zero or negative means unknown.
	Duration int `json:"duration,omitempty"`

	// Source is the book or publisher the arrangement is taken from.
	Source Source `json:"source,omitzero"`

	// SourceReference is free text within the source, e.g. a hymnal number.
	SourceReference string `json:"sourceReference,omitempty"`

	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"isDefault,omitempty"`
}

// Tag is a label that can be attached to songs.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Category is the single category reference of a song.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SourceKind tells which variant a Source holds.
type SourceKind int

const (
	// SourceNone means the arrangement has no source.
	SourceNone SourceKind = iota

	// SourcePlain is a source given as plain text.
	SourcePlain

	// SourceNamed is a structured source reference with a name.
	SourceNamed
)

// Source is the source of an arrangement: either plain text or a named
// reference. The zero value is an absent source.
type Source struct {
	kind  SourceKind
	value string
}

// PlainSource returns a source given as plain text.
func PlainSource(text string) Source {
	return Source{kind: SourcePlain, value: text}
}

// NamedSource returns a structured source reference with the given name.
func NamedSource(name string) Source {
	return Source{kind: SourceNamed, value: name}
}

// Kind returns the variant of the source.
func (s Source) Kind() SourceKind {
	return s.kind
}

// IsZero reports whether the source is absent.
func (s Source) IsZero() bool {
	return s.kind == SourceNone
}

// String returns the plain text or the reference name. Absent sources
// return the empty string.
func (s Source) String() string {
	return s.value
}

type namedSource struct {
	Name string `json:"name"`
}

// MarshalJSON encodes plain sources as strings and named sources as
// {"name": ...} objects.
func (s Source) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case SourcePlain:
		return json.Marshal(s.value)
	case SourceNamed:
		return json.Marshal(namedSource{Name: s.value})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a string, an object with a name field or null.
// Any other shape decodes to an absent source.
func (s *Source) UnmarshalJSON(data []byte) error {
	*s = Source{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = PlainSource(text)
	case '{':
		var named namedSource
		if err := json.Unmarshal(data, &named); err != nil {
			return nil
		}
		*s = NamedSource(named.Name)
	}

	return nil
}
