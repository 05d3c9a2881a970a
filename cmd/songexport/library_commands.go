package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CEuchner/churchtools-song-export/internal/config"
	"github.com/CEuchner/churchtools-song-export/internal/library"
)

func newImportSQLiteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import-sqlite <database>",
		Short: "Copy the song library into a SQLite database",
		Long: `Import-sqlite loads the song library from the configured source and
replaces the contents of the SQLite database with it. The database can then
be used offline with --source sqlite --path <database>.

Example:
  songexport import-sqlite songs.db --url https://example.church.tools`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := args[0]
			if sameSQLite(ctx.config, dbPath) {
				return fmt.Errorf("import-sqlite: %s is the configured source", dbPath)
			}

			lib, err := ctx.loadLibrary(cmd)
			if err != nil {
				return err
			}

			db, err := library.OpenSQLite(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Import(cmd.Context(), lib); err != nil {
				return err
			}
			ctx.logger.Info("library imported", "database", db.Path(), "songs", len(lib.Songs), "tags", len(lib.Tags))
			return nil
		},
	}
}

func newDumpJSONCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dump-json <file>",
		Short: "Write the song library to a JSON file",
		Long: `Dump-json loads the song library from the configured source and writes
it as JSON. The file can be used with --source json --path <file>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := ctx.loadLibrary(cmd)
			if err != nil {
				return err
			}
			if err := library.SaveJSON(args[0], lib); err != nil {
				return err
			}
			ctx.logger.Info("library written", "path", args[0], "songs", len(lib.Songs))
			return nil
		},
	}
}

func sameSQLite(cfg *config.Config, path string) bool {
	if cfg.Source.Kind != config.SourceSQLite {
		return false
	}
	a, errA := filepath.Abs(cfg.Source.Path)
	b, errB := filepath.Abs(path)
	return errA == nil && errB == nil && a == b
}
