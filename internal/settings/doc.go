// Package settings converts the selection state to and from the versioned
// settings document used for export and import.
//
// # Building
//
// Build flattens a state into a Document. Sets become arrays, maps become
// arrays of [key, value] pairs:
//
//	doc := settings.Build(state, time.Time{})
//	err := settings.Save("/home/user/.config/songexport/settings.json", doc)
//
// # Applying
//
// Apply reads a document back onto a state. Documents may be partial: only
// the fields that are present are replaced. Unknown tag or detail ids are
// dropped and orders are reconciled against the catalogs of the state, so
// documents stay usable while the tag catalog evolves:
//
//	if err := settings.Apply(data, state); errors.Is(err, settings.ErrMalformedDocument) {
//	    // not a JSON object, state untouched
//	}
//
// Load combines reading a file with Apply and treats a missing file as
// "keep the defaults".
package settings
