package export

import (
	"regexp"
	"strings"

	"github.com/CEuchner/churchtools-song-export/internal/render"
)

// DefaultBaseName is used when a title sanitizes to nothing.
const DefaultBaseName = "songs"

var (
	invalidChars  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots  = regexp.MustCompile(`\.+$`)
	repeatedSpace = regexp.MustCompile(`\s+`)
)

// SanitizeFileName removes or replaces characters that are invalid in file names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Leading and trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Lieder: Advent/Weihnachten") // Returns "Lieder_ Advent_Weihnachten"
//	SanitizeFileName("Songs...")                   // Returns "Songs"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = repeatedSpace.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	name = trailingDots.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// DefaultFileName derives an output file name from the document title and
// the output format.
func DefaultFileName(title, format string) string {
	base := SanitizeFileName(title)
	if base == "" {
		base = DefaultBaseName
	}
	return base + render.Extension(format)
}
