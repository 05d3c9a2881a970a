package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CEuchner/churchtools-song-export/internal/library"
	"github.com/CEuchner/churchtools-song-export/internal/logging"
	"github.com/CEuchner/churchtools-song-export/internal/model"
	"github.com/CEuchner/churchtools-song-export/internal/render"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
	"github.com/CEuchner/churchtools-song-export/internal/watch"
)

type cliTestEnv struct {
	baseDir      string
	libraryPath  string
	settingsPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", base)
	t.Chdir(base)

	hymns := model.Category{ID: 10, Name: "Hymns"}
	praise := model.Tag{ID: 1, Name: "Praise"}
	worship := model.Tag{ID: 2, Name: "Worship"}
	lib := &library.Library{
		Songs: []model.Song{
			{ID: 1, Name: "Amazing Grace", Author: "John Newton", Category: &hymns, Tags: []model.Tag{praise}},
			{ID: 2, Name: "Oceans", Tags: []model.Tag{worship}},
		},
		Tags:       []model.Tag{praise, worship},
		Categories: []model.Category{hymns},
	}

	env := &cliTestEnv{
		baseDir:      base,
		libraryPath:  filepath.Join(base, "library.json"),
		settingsPath: filepath.Join(base, "settings", "settings.json"),
	}
	require.NoError(t, library.SaveJSON(env.libraryPath, lib))
	return env
}

// run executes the CLI against the JSON fixture library.
func (env *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args,
		"--source", "json",
		"--path", env.libraryPath,
		"--settings", env.settingsPath,
		"--log-level", "error",
	))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExportCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "export", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Section,Name,Author"))
	assert.True(t, strings.HasPrefix(lines[1], "Praise,Amazing Grace,John Newton"))
	assert.True(t, strings.HasPrefix(lines[2], "Worship,Oceans"))
}

func TestExportCommand_ToDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "out")
	require.NoError(t, os.Mkdir(dir, 0755))

	_, err := env.run(t, "export", "--format", "html", "--title", "Lieder: Advent", "-o", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "Lieder_ Advent.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Amazing Grace")
}

func TestSettingsInitAndApply(t *testing.T) {
	env := setupCLITestEnv(t)

	_, err := env.run(t, "settings", "init")
	require.NoError(t, err)
	assert.FileExists(t, env.settingsPath)

	_, err = env.run(t, "settings", "init")
	assert.Error(t, err)

	_, err = env.run(t, "settings", "init", "--force")
	require.NoError(t, err)

	doc := filepath.Join(env.baseDir, "only-worship.json")
	require.NoError(t, os.WriteFile(doc, []byte(`{"selectedTagIds": [2, 99], "includeAllSongsList": true}`), 0644))
	_, err = env.run(t, "settings", "apply", doc)
	require.NoError(t, err)

	out, err := env.run(t, "export", "--format", "csv")
	require.NoError(t, err)
	assert.NotContains(t, out, "Praise,")
	assert.Contains(t, out, "Worship,Oceans")

	out, err = env.run(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "All songs section")
	assert.Contains(t, out, "Source Reference")
}

func TestSettingsApply_Malformed(t *testing.T) {
	env := setupCLITestEnv(t)

	doc := filepath.Join(env.baseDir, "broken.json")
	require.NoError(t, os.WriteFile(doc, []byte(`[1, 2, 3]`), 0644))

	_, err := env.run(t, "settings", "apply", doc)
	assert.Error(t, err)
	assert.NoFileExists(t, env.settingsPath)
}

func TestSettingsShow_JSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "settings", "show", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"selectedTagIds"`)
	assert.Contains(t, out, `"headerStyleOptions"`)
}

func TestListCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "fields")
	require.NoError(t, err)
	assert.Contains(t, out, "Source Reference")
	assert.Contains(t, out, "description")

	out, err = env.run(t, "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "Praise")
	assert.Contains(t, out, "Worship")

	out, err = env.run(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Hymns")
	assert.Contains(t, out, "(none)")
}

func TestImportSQLite(t *testing.T) {
	env := setupCLITestEnv(t)
	db := filepath.Join(env.baseDir, "songs.db")

	_, err := env.run(t, "import-sqlite", db)
	require.NoError(t, err)

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"export", "--source", "sqlite", "--path", db, "--settings", env.settingsPath, "--format", "csv", "--log-level", "error"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Praise,Amazing Grace")
}

func TestDumpJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	dump := filepath.Join(env.baseDir, "dump.json")

	_, err := env.run(t, "dump-json", dump)
	require.NoError(t, err)

	lib, err := library.JSONFile{Path: dump}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, lib.Songs, 2)
}

func TestInvalidSource(t *testing.T) {
	setupCLITestEnv(t)

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"export", "--source", "ftp"})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestAutoFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"songs.html", render.FormatHTML},
		{"songs.MD", render.FormatMarkdown},
		{"songs.csv", render.FormatCSV},
		{"songs.txt", render.FormatText},
		{"songs", render.FormatText},
		{"", render.FormatText},
	}

	for _, tt := range tests {
		if got := autoFormat(tt.path, &bytes.Buffer{}); got != tt.want {
			t.Errorf("autoFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWatchLoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	tags := []model.Tag{{ID: 1, Name: "Praise"}, {ID: 2, Name: "Worship"}}
	ctrl := selection.NewController(selection.NewState(tags, nil), nil)

	runs := 0
	run := func() error {
		runs++
		return nil
	}

	changes := make(chan watch.Change, 4)
	require.NoError(t, os.WriteFile(path, []byte(`{"selectedTagIds": [1]}`), 0644))
	changes <- watch.Change{Path: path}
	changes <- watch.Change{Path: path, Removed: true}
	close(changes)

	require.NoError(t, watchLoop(context.Background(), changes, ctrl, run, logging.Discard()))
	assert.Equal(t, 1, runs)
	assert.Equal(t, []int{1}, ctrl.Snapshot().SelectedTagIDs.Items())
}

func TestWatchLoop_RejectedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`"not an object"`), 0644))

	tags := []model.Tag{{ID: 1, Name: "Praise"}, {ID: 2, Name: "Worship"}}
	ctrl := selection.NewController(selection.NewState(tags, nil), nil)

	changes := make(chan watch.Change, 1)
	changes <- watch.Change{Path: path}
	close(changes)

	runs := 0
	require.NoError(t, watchLoop(context.Background(), changes, ctrl, func() error { runs++; return nil }, logging.Discard()))
	assert.Equal(t, 0, runs)
	assert.Equal(t, 2, ctrl.Snapshot().SelectedTagIDs.Len())
}

func TestWatchLoop_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ctrl := selection.NewController(selection.NewState(nil, nil), nil)
	err := watchLoop(ctx, make(chan watch.Change), ctrl, func() error { return nil }, logging.Discard())
	assert.NoError(t, err)
}
