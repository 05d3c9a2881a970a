package fields

import (
	"fmt"
	"strings"

	"github.com/CEuchner/churchtools-song-export/internal/model"
)

// UntitledName replaces empty song names.
const UntitledName = "Untitled"

// DefaultArrangement returns the representative arrangement of a song.
//
// The first arrangement marked as default wins. Without any default the first
// arrangement in list order is used. ok is false when the song has no
// arrangements.
func DefaultArrangement(song *model.Song) (arr model.Arrangement, ok bool) {
	if len(song.Arrangements) == 0 {
		return model.Arrangement{}, false
	}
	for _, a := range song.Arrangements {
		if a.IsDefault {
			return a, true
		}
	}
	return song.Arrangements[0], true
}

// Render returns the display text of the given detail field for a song.
func Render(song *model.Song, id model.DetailID) string {
	switch id {
	case model.DetailName:
		if strings.TrimSpace(song.Name) == "" {
			return UntitledName
		}
		return song.Name
	case model.DetailAuthor:
		return song.Author
	case model.DetailCategory:
		if song.Category == nil {
			return ""
		}
		return song.Category.Name
	case model.DetailCopyright:
		if song.Copyright == "" {
			return ""
		}
		return "© " + song.Copyright
	case model.DetailCCLI:
		if song.CCLI == "" {
			return ""
		}
		return "CCLI: " + song.CCLI
	case model.DetailTags:
		names := make([]string, 0, len(song.Tags))
		for _, tag := range song.Tags {
			names = append(names, tag.Name)
		}
		return strings.Join(names, ", ")
	}

	arr, ok := DefaultArrangement(song)
	if !ok {
		return ""
	}

	switch id {
	case model.DetailSourceReference:
		return arr.SourceReference
	case model.DetailKey:
		return arr.Key
	case model.DetailDescription:
		return arr.Description
	case model.DetailSource:
		return arr.Source.String()
	case model.DetailTempo:
		if arr.Tempo <= 0 {
			return ""
		}
		return fmt.Sprintf("%d BPM", arr.Tempo)
	case model.DetailDuration:
		return FormatDuration(arr.Duration)
	}

	return ""
}

// FormatDuration formats seconds as minutes and zero-padded seconds,
// e.g. 305 becomes "5:05". Non-positive durations format as "".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
