package model

// DetailID identifies a detail column that can be shown for each song.
type DetailID string

const (
	DetailName            DetailID = "name"
	DetailAuthor          DetailID = "author"
	DetailCategory        DetailID = "category"
	DetailSourceReference DetailID = "sourceReference"
	DetailCCLI            DetailID = "ccli"
	DetailCopyright       DetailID = "copyright"
	DetailTags            DetailID = "tags"
	DetailSource          DetailID = "source"
	DetailKey             DetailID = "key"
	DetailTempo           DetailID = "tempo"
	DetailDuration        DetailID = "duration"
	DetailDescription     DetailID = "description"
)

// MaxDetailColumns is the number of detail columns a document can show.
const MaxDetailColumns = 4

// DetailField is a detail column with its display label.
type DetailField struct {
	ID    DetailID `json:"id"`
	Label string   `json:"label"`
}

var detailCatalog = []DetailField{
	{ID: DetailName, Label: "Name"},
	{ID: DetailAuthor, Label: "Author"},
	{ID: DetailCategory, Label: "Category"},
	{ID: DetailSourceReference, Label: "Source Reference"},
	{ID: DetailCCLI, Label: "CCLI"},
	{ID: DetailCopyright, Label: "Copyright"},
	{ID: DetailTags, Label: "Tags"},
	{ID: DetailSource, Label: "Source"},
	{ID: DetailKey, Label: "Key"},
	{ID: DetailTempo, Label: "Tempo"},
	{ID: DetailDuration, Label: "Duration"},
	{ID: DetailDescription, Label: "Description"},
}

// DetailCatalog returns the twelve detail fields in catalog order.
// The returned slice is a copy and may be modified by the caller.
func DetailCatalog() []DetailField {
	out := make([]DetailField, len(detailCatalog))
	copy(out, detailCatalog)
	return out
}

// IsDetailID reports whether id names a field of the detail catalog.
func IsDetailID(id DetailID) bool {
	_, ok := LookupDetail(id)
	return ok
}

// LookupDetail returns the catalog entry for id.
func LookupDetail(id DetailID) (DetailField, bool) {
	for _, field := range detailCatalog {
		if field.ID == id {
			return field, true
		}
	}
	return DetailField{}, false
}
