// Package model defines the core data structures used throughout
// churchtools-song-export.
//
// # Song
//
// Song is one record of the song library with its tags, category and
// arrangements:
//
//	song := model.Song{ID: 1, Name: "Amazing Grace", CCLI: "22025"}
//	if song.HasTag(3) {
//	    // ...
//	}
//
// # Arrangement Source
//
// The source of an arrangement is either plain text or a named reference.
// Both variants decode from the JSON shapes used by ChurchTools:
//
//	"source": "Feiert Jesus 3"           // model.PlainSource
//	"source": {"name": "Feiert Jesus"}   // model.NamedSource
//
// # Detail Fields
//
// The detail catalog is fixed at twelve fields. DetailName is mandatory for
// every export and always rendered first:
//
//	for _, field := range model.DetailCatalog() {
//	    fmt.Println(field.ID, field.Label)
//	}
package model
