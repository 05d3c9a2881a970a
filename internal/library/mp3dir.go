package library

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"golang.org/x/sync/errgroup"

	"github.com/CEuchner/churchtools-song-export/internal/model"
)

// DefaultScanWorkers is the number of files read in parallel when MP3Dir.Workers is unset.
const DefaultScanWorkers = 4

// Frame ids read by MP3Dir.
const (
	frameTitle     = "TIT2"
	frameArtist    = "TPE1"
	frameCopyright = "TCOP"
	frameKey       = "TKEY"
	frameBPM       = "TBPM"
	frameLength    = "TLEN"
	frameGenre     = "TCON"
	frameGroup     = "TIT1"
	framePublisher = "TPUB"
	frameUserText  = "TXXX"
	frameComment   = "COMM"

	// CCLIDescription is the description of the TXXX frame holding the CCLI number.
	CCLIDescription = "CCLI"
)

// MP3Dir loads a library from the ID3 tags of the MP3 files below Root.
//
// Each file becomes one song with a single default arrangement:
//   - TIT2 is the name, TPE1 the author, TCOP the copyright
//   - TKEY, TBPM and TLEN (milliseconds) fill key, tempo and duration
//   - TPUB is the arrangement source, COMM its description
//   - TCON is the category
//   - TIT1 holds comma-separated tags
//   - a TXXX frame described as "CCLI" holds the CCLI number
//
// Song, tag and category ids are assigned in sorted path and name order, so
// the same directory always yields the same ids. Files that cannot be read
// are logged and skipped.
//
// Example:
//
//	src := &MP3Dir{Root: "/music/worship", Workers: 8, Logger: logger}
//	lib, err := src.Load(ctx)
type MP3Dir struct {
	Root    string
	Workers int
	Logger  *slog.Logger
}

// scannedFile is the raw tag data of one file.
type scannedFile struct {
	ok       bool
	song     model.Song
	genre    string
	tagNames []string
}

// Load walks Root and reads every .mp3 file.
func (d *MP3Dir) Load(ctx context.Context) (*Library, error) {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	paths, err := d.files()
	if err != nil {
		return nil, err
	}

	workers := d.Workers
	if workers <= 0 {
		workers = DefaultScanWorkers
	}

	results := make([]scannedFile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			file, err := readFile(path)
			if err != nil {
				logger.Warn("skipping unreadable file", "path", path, "error", err)
				return nil // Continue with other files
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	lib := assembleLibrary(results)
	logger.Debug("scanned mp3 library", "root", d.Root, "files", len(paths), "songs", len(lib.Songs))
	return lib, nil
}

func (d *MP3Dir) files() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(d.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(path), ".mp3") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", d.Root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func readFile(path string) (scannedFile, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return scannedFile{}, err
	}
	defer tag.Close()

	song := model.Song{
		Name:      tag.Title(),
		Author:    tag.Artist(),
		Copyright: textFrame(tag, frameCopyright),
		CCLI:      userText(tag, CCLIDescription),
	}

	arr := model.Arrangement{
		Key:         textFrame(tag, frameKey),
		Tempo:       atoi(textFrame(tag, frameBPM)),
		Duration:    atoi(textFrame(tag, frameLength)) / 1000,
		Description: comment(tag),
		IsDefault:   true,
	}
	if publisher := textFrame(tag, framePublisher); publisher != "" {
		arr.Source = model.PlainSource(publisher)
	}
	song.Arrangements = []model.Arrangement{arr}

	return scannedFile{
		ok:       true,
		song:     song,
		genre:    strings.TrimSpace(tag.Genre()),
		tagNames: splitList(textFrame(tag, frameGroup)),
	}, nil
}

func assembleLibrary(files []scannedFile) *Library {
	tagIDs := assignIDs(files, func(f scannedFile) []string { return f.tagNames })
	categoryIDs := assignIDs(files, func(f scannedFile) []string {
		if f.genre == "" {
			return nil
		}
		return []string{f.genre}
	})

	lib := &Library{}
	for _, f := range files {
		if !f.ok {
			continue
		}
		song := f.song
		song.ID = len(lib.Songs) + 1
		song.Arrangements[0].ID = song.ID
		if f.genre != "" {
			song.Category = &model.Category{ID: categoryIDs[f.genre], Name: f.genre}
		}
		for _, name := range f.tagNames {
			tag := model.Tag{ID: tagIDs[name], Name: name}
			if !song.HasTag(tag.ID) {
				song.Tags = append(song.Tags, tag)
			}
		}
		lib.Songs = append(lib.Songs, song)
	}
	lib.Complete()
	return lib
}

// assignIDs numbers the distinct names of all files in sorted order, from 1.
func assignIDs(files []scannedFile, names func(scannedFile) []string) map[string]int {
	seen := make(map[string]bool)
	var all []string
	for _, f := range files {
		for _, name := range names(f) {
			if !seen[name] {
				seen[name] = true
				all = append(all, name)
			}
		}
	}
	sort.Strings(all)

	ids := make(map[string]int, len(all))
	for i, name := range all {
		ids[name] = i + 1
	}
	return ids
}

func textFrame(tag *id3v2.Tag, id string) string {
	return strings.TrimSpace(tag.GetTextFrame(id).Text)
}

func userText(tag *id3v2.Tag, description string) string {
	for _, f := range tag.GetFrames(frameUserText) {
		udtf, ok := f.(id3v2.UserDefinedTextFrame)
		if ok && strings.EqualFold(udtf.Description, description) {
			return strings.TrimSpace(udtf.Value)
		}
	}
	return ""
}

func comment(tag *id3v2.Tag) string {
	for _, f := range tag.GetFrames(frameComment) {
		if cf, ok := f.(id3v2.CommentFrame); ok && strings.TrimSpace(cf.Text) != "" {
			return strings.TrimSpace(cf.Text)
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
