package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/CEuchner/churchtools-song-export/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the selected songs",
		Long: `Export loads the song library, applies the saved settings document and
renders the selected tags as song lists.

Example:
  songexport export --format html -o songs.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, closeSource, err := ctx.openSource(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSource()

			path, format := ctx.outputTarget(cmd.OutOrStdout())
			exp, err := ctx.newExporter(src, format)
			if err != nil {
				return err
			}

			state, err := ctx.loadState(cmd.Context(), exp)
			if err != nil {
				return err
			}

			var res export.Result
			err = writeOutput(path, cmd.OutOrStdout(), func(w io.Writer) error {
				res, err = exp.Run(cmd.Context(), state, w)
				return err
			})
			if err != nil {
				return err
			}
			if path != "" {
				ctx.logger.Info("export written", "path", path, "format", format, "sections", res.Sections, "songs", res.Songs)
			}
			return nil
		},
	}
	addOutputFlags(cmd)
	return cmd
}
