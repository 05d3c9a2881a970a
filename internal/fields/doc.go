// Package fields renders the detail fields of a song to display text.
//
// Arrangement-scoped fields (key, tempo, duration, source, source reference
// and description) are always read from the default arrangement as picked by
// DefaultArrangement:
//
//	arr, ok := fields.DefaultArrangement(song)
//	text := fields.Render(song, model.DetailTempo) // "120 BPM"
//
// Render is total: missing values and unknown field ids produce an empty
// string, never an error.
package fields
