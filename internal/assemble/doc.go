// Package assemble turns a song list and the selection state into the
// sections of an export document.
//
// Each section is a title plus table rows. A row holds one formatted cell per
// active detail column:
//
//	asm := assemble.New(assemble.WithLanguage(language.German))
//	for _, sec := range asm.Assemble(songs, state) {
//	    fmt.Println(sec.Title, sec.SongCount())
//	}
//
// # Grouping
//
// When alphabetical grouping is enabled for a section context, the songs of
// that section are sorted by name with the collation rules of the configured
// language (stable, so equal names keep their input order) and a spacer row is
// inserted wherever the upper-cased first letter changes.
package assemble
