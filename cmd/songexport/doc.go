// Command songexport exports song lists from ChurchTools or a local song
// library.
//
// The selection of tags, columns and formatting lives in a settings document
// that is shared by the export, watch and edit commands. Configuration comes
// from .songexport.yaml, SONGEXPORT_* environment variables and flags.
package main
