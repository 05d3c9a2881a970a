package dto

import (
	"bytes"
	"encoding/json"

	"github.com/CEuchner/churchtools-song-export/internal/model"
)

// JSONTag represents a tag from the ChurchTools tags endpoint.
type JSONTag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ToTag converts JSONTag to a model.Tag.
func (jt *JSONTag) ToTag() model.Tag {
	return model.Tag{ID: jt.ID, Name: jt.Name}
}

// JSONTagRef is a tag attached to a song. Depending on the ChurchTools
// version it is either a full tag object or a bare id.
type JSONTagRef struct {
	JSONTag
}

// UnmarshalJSON accepts an object or a number.
func (r *JSONTagRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		return json.Unmarshal(data, &r.JSONTag)
	}
	r.JSONTag = JSONTag{}
	return json.Unmarshal(data, &r.ID)
}

// JSONCategory represents the category of a song.
type JSONCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ToCategory converts JSONCategory to a model.Category.
func (jc *JSONCategory) ToCategory() *model.Category {
	return &model.Category{ID: jc.ID, Name: jc.Name}
}
