package dto

import "encoding/json"

// JSONPage is the envelope of a ChurchTools list response.
type JSONPage struct {
	Data json.RawMessage `json:"data"`
	Meta JSONMeta        `json:"meta"`
}

// JSONMeta carries the pagination of a list response.
type JSONMeta struct {
	Count      int             `json:"count"`
	Pagination *JSONPagination `json:"pagination"`
}

// JSONPagination describes the current page of a list response.
type JSONPagination struct {
	Total    int `json:"total"`
	Limit    int `json:"limit"`
	Current  int `json:"current"`
	LastPage int `json:"lastPage"`
}
