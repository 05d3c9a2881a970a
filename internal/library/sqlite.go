package library

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/CEuchner/churchtools-song-export/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// SQLite is a song library stored in a SQLite database.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the library database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("ensure library directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps pragmas in effect for every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLite{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

func (s *SQLite) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s and import again)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *SQLite) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Import replaces the stored library with lib. Song order is preserved.
func (s *SQLite) Import(ctx context.Context, lib *Library) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"arrangements", "song_tags", "songs", "tags", "categories"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	categories := lib.Categories
	if len(categories) == 0 {
		categories = DeriveCategories(lib.Songs)
	}
	for _, c := range categories {
		if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO categories (id, name) VALUES (?, ?)", c.ID, c.Name); err != nil {
			return fmt.Errorf("insert category %d: %w", c.ID, err)
		}
	}

	tags := lib.Tags
	if len(tags) == 0 {
		tags = DeriveTags(lib.Songs)
	}
	for _, t := range tags {
		if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO tags (id, name) VALUES (?, ?)", t.ID, t.Name); err != nil {
			return fmt.Errorf("insert tag %d: %w", t.ID, err)
		}
	}

	for pos, song := range lib.Songs {
		if err := insertSong(ctx, tx, pos, &song); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func insertSong(ctx context.Context, tx *sql.Tx, pos int, song *model.Song) error {
	var categoryID sql.NullInt64
	if song.Category != nil {
		categoryID = sql.NullInt64{Int64: int64(song.Category.ID), Valid: true}
		// Categories that only appear on songs still need a row.
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO categories (id, name) VALUES (?, ?)",
			song.Category.ID, song.Category.Name); err != nil {
			return fmt.Errorf("insert category %d: %w", song.Category.ID, err)
		}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO songs (id, position, name, author, copyright, ccli, category_id)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		song.ID, pos, song.Name, song.Author, song.Copyright, song.CCLI, categoryID,
	)
	if err != nil {
		return fmt.Errorf("insert song %d: %w", song.ID, err)
	}

	for i, tag := range song.Tags {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO tags (id, name) VALUES (?, ?)", tag.ID, tag.Name); err != nil {
			return fmt.Errorf("insert tag %d: %w", tag.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO song_tags (song_id, tag_id, position) VALUES (?, ?, ?)",
			song.ID, tag.ID, i,
		); err != nil {
			return fmt.Errorf("tag song %d: %w", song.ID, err)
		}
	}

	for i, arr := range song.Arrangements {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO arrangements (
                id, song_id, position, name, song_key, tempo, duration,
                source_kind, source_value, source_reference, description, is_default
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			arr.ID, song.ID, i, arr.Name, arr.Key, arr.Tempo, arr.Duration,
			int(arr.Source.Kind()), arr.Source.String(), arr.SourceReference, arr.Description, arr.IsDefault,
		)
		if err != nil {
			return fmt.Errorf("insert arrangement %d of song %d: %w", arr.ID, song.ID, err)
		}
	}
	return nil
}

// Load reads the stored library in import order.
func (s *SQLite) Load(ctx context.Context) (*Library, error) {
	lib := &Library{}

	categories := make(map[int]model.Category)
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories[c.ID] = c
		lib.Categories = append(lib.Categories, c)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	tags, err := s.loadTags(ctx)
	if err != nil {
		return nil, err
	}
	lib.Tags = tags

	songs, index, err := s.loadSongs(ctx, categories)
	if err != nil {
		return nil, err
	}
	if err := s.loadSongTags(ctx, songs, index); err != nil {
		return nil, err
	}
	if err := s.loadArrangements(ctx, songs, index); err != nil {
		return nil, err
	}
	lib.Songs = songs

	return lib, nil
}

func (s *SQLite) loadTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM tags ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, closeRows(rows)
}

func (s *SQLite) loadSongs(ctx context.Context, categories map[int]model.Category) ([]model.Song, map[int]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, author, copyright, ccli, category_id FROM songs ORDER BY position")
	if err != nil {
		return nil, nil, fmt.Errorf("query songs: %w", err)
	}

	var songs []model.Song
	index := make(map[int]int)
	for rows.Next() {
		var (
			song       model.Song
			categoryID sql.NullInt64
		)
		if err := rows.Scan(&song.ID, &song.Name, &song.Author, &song.Copyright, &song.CCLI, &categoryID); err != nil {
			_ = rows.Close()
			return nil, nil, fmt.Errorf("scan song: %w", err)
		}
		if categoryID.Valid {
			if c, ok := categories[int(categoryID.Int64)]; ok {
				song.Category = &c
			}
		}
		index[song.ID] = len(songs)
		songs = append(songs, song)
	}
	return songs, index, closeRows(rows)
}

func (s *SQLite) loadSongTags(ctx context.Context, songs []model.Song, index map[int]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT st.song_id, t.id, t.name
         FROM song_tags st JOIN tags t ON t.id = st.tag_id
         ORDER BY st.song_id, st.position`)
	if err != nil {
		return fmt.Errorf("query song tags: %w", err)
	}
	for rows.Next() {
		var (
			songID int
			tag    model.Tag
		)
		if err := rows.Scan(&songID, &tag.ID, &tag.Name); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan song tag: %w", err)
		}
		if i, ok := index[songID]; ok {
			songs[i].Tags = append(songs[i].Tags, tag)
		}
	}
	return closeRows(rows)
}

func (s *SQLite) loadArrangements(ctx context.Context, songs []model.Song, index map[int]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT song_id, id, name, song_key, tempo, duration,
                source_kind, source_value, source_reference, description, is_default
         FROM arrangements ORDER BY song_id, position`)
	if err != nil {
		return fmt.Errorf("query arrangements: %w", err)
	}
	for rows.Next() {
		var (
			songID      int
			arr         model.Arrangement
			sourceKind  int
			sourceValue string
		)
		if err := rows.Scan(&songID, &arr.ID, &arr.Name, &arr.Key, &arr.Tempo, &arr.Duration,
			&sourceKind, &sourceValue, &arr.SourceReference, &arr.Description, &arr.IsDefault); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan arrangement: %w", err)
		}
		arr.Source = sourceFromColumns(model.SourceKind(sourceKind), sourceValue)
		if i, ok := index[songID]; ok {
			songs[i].Arrangements = append(songs[i].Arrangements, arr)
		}
	}
	return closeRows(rows)
}

func sourceFromColumns(kind model.SourceKind, value string) model.Source {
	switch kind {
	case model.SourcePlain:
		return model.PlainSource(value)
	case model.SourceNamed:
		return model.NamedSource(value)
	default:
		return model.Source{}
	}
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("iterate rows: %w", err)
	}
	return rows.Close()
}
