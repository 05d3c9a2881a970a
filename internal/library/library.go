package library

import (
	"context"
	"errors"
	"sort"

	"github.com/CEuchner/churchtools-song-export/internal/model"
)

// ErrUnknownSource is returned for source kinds that are not supported.
var ErrUnknownSource = errors.New("unknown song source")

// Library is a fully materialized song library with its catalogs.
type Library struct {
	Songs      []model.Song     `json:"songs"`
	Tags       []model.Tag      `json:"tags"`
	Categories []model.Category `json:"categories"`
}

// Source loads a song library.
type Source interface {
	Load(ctx context.Context) (*Library, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (*Library, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context) (*Library, error) {
	return f(ctx)
}

// Complete fills missing catalogs from the songs of the library.
func (l *Library) Complete() {
	if len(l.Tags) == 0 {
		l.Tags = DeriveTags(l.Songs)
	}
	if len(l.Categories) == 0 {
		l.Categories = DeriveCategories(l.Songs)
	}
}

// FilterByCategory returns the songs whose category is selected. Songs
// without a category are always kept.
func FilterByCategory(songs []model.Song, selected func(id int) bool) []model.Song {
	out := make([]model.Song, 0, len(songs))
	for _, song := range songs {
		if song.Category == nil || selected(song.Category.ID) {
			out = append(out, song)
		}
	}
	return out
}

// DeriveTags collects the distinct tags of the songs, sorted by name and id.
func DeriveTags(songs []model.Song) []model.Tag {
	seen := make(map[int]bool)
	var tags []model.Tag
	for _, song := range songs {
		for _, tag := range song.Tags {
			if seen[tag.ID] {
				continue
			}
			seen[tag.ID] = true
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Name != tags[j].Name {
			return tags[i].Name < tags[j].Name
		}
		return tags[i].ID < tags[j].ID
	})
	return tags
}

// DeriveCategories collects the distinct categories of the songs, sorted by
// name and id.
func DeriveCategories(songs []model.Song) []model.Category {
	seen := make(map[int]bool)
	var cats []model.Category
	for _, song := range songs {
		if song.Category == nil || seen[song.Category.ID] {
			continue
		}
		seen[song.Category.ID] = true
		cats = append(cats, *song.Category)
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Name != cats[j].Name {
			return cats[i].Name < cats[j].Name
		}
		return cats[i].ID < cats[j].ID
	})
	return cats
}
