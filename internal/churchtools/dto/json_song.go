package dto

import (
	"strings"

	"github.com/CEuchner/churchtools-song-export/internal/model"
)

// JSONSong represents a song from the ChurchTools songs endpoint.
type JSONSong struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	Author       string            `json:"author"`
	Copyright    string            `json:"copyright"`
	CCLI         FlexString        `json:"ccli"`
	Category     *JSONCategory     `json:"category"`
	Tags         []JSONTagRef      `json:"tags"`
	Arrangements []JSONArrangement `json:"arrangements"`
}

// JSONArrangement represents one arrangement of a song.
type JSONArrangement struct {
	ID              int          `json:"id"`
	Name            string       `json:"name"`
	IsDefault       bool         `json:"isDefault"`
	Key             string       `json:"keyOfArrangement"`
	BPM             FlexInt      `json:"bpm"`
	Duration        FlexInt      `json:"duration"`
	Source          model.Source `json:"source"`
	SourceName      string       `json:"sourceName"`
	SourceReference string       `json:"sourceReference"`
	Description     string       `json:"description"`
	Note            string       `json:"note"`
}

// ToSong converts JSONSong to a model.Song.
//
// Tags given as bare ids are resolved through tags; ids without a match
// keep an empty name.
func (js *JSONSong) ToSong(tags map[int]model.Tag) model.Song {
	song := model.Song{
		ID:        js.ID,
		Name:      js.Name,
		Author:    strings.TrimSpace(js.Author),
		Copyright: strings.TrimSpace(js.Copyright),
		CCLI:      strings.TrimSpace(string(js.CCLI)),
	}

	if js.Category != nil {
		song.Category = js.Category.ToCategory()
	}

	for _, ref := range js.Tags {
		tag := ref.ToTag()
		if tag.Name == "" {
			if known, ok := tags[tag.ID]; ok {
				tag = known
			}
		}
		if !song.HasTag(tag.ID) {
			song.Tags = append(song.Tags, tag)
		}
	}

	for i := range js.Arrangements {
		song.Arrangements = append(song.Arrangements, js.Arrangements[i].ToArrangement())
	}

	return song
}

// ToArrangement converts JSONArrangement to a model.Arrangement.
func (ja *JSONArrangement) ToArrangement() model.Arrangement {
	source := ja.Source
	// Older ChurchTools versions only send the source name as plain text.
	if source.IsZero() && strings.TrimSpace(ja.SourceName) != "" {
		source = model.PlainSource(strings.TrimSpace(ja.SourceName))
	}

	description := ja.Description
	if description == "" {
		description = ja.Note
	}

	return model.Arrangement{
		ID:              ja.ID,
		Name:            ja.Name,
		Key:             ja.Key,
		Tempo:           int(ja.BPM),
		Duration:        int(ja.Duration),
		Source:          source,
		SourceReference: ja.SourceReference,
		Description:     strings.TrimSpace(description),
		IsDefault:       ja.IsDefault,
	}
}
