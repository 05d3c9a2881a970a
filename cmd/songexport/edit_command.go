package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/CEuchner/churchtools-song-export/internal/config"
	"github.com/CEuchner/churchtools-song-export/internal/export"
	"github.com/CEuchner/churchtools-song-export/internal/render"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
	"github.com/CEuchner/churchtools-song-export/internal/settings"
	"github.com/CEuchner/churchtools-song-export/internal/tui"
)

func newEditCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the selection interactively",
		Long: `Edit opens a terminal editor for the song selection. Press s to save the
settings document and e to write the export file.

Exports from the editor always go to a file. Without --output the file is
named after the title and written as HTML to the working directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, closeSource, err := ctx.openSource(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSource()

			path, format := editorTarget(ctx.config)
			exp, err := ctx.newExporter(src, format)
			if err != nil {
				return err
			}
			state, err := ctx.loadState(cmd.Context(), exp)
			if err != nil {
				return err
			}
			ctrl := selection.NewController(state, ctx.logger)

			save := func(s *selection.State) error {
				return settings.Save(ctx.config.SettingsPath, settings.Build(s, time.Now()))
			}
			run := func(runCtx context.Context, s *selection.State) (string, error) {
				var res export.Result
				err := writeOutput(path, nil, func(w io.Writer) error {
					var err error
					res, err = exp.Run(runCtx, s, w)
					return err
				})
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d songs in %d sections written to %s", res.Songs, res.Sections, path), nil
			}

			return tui.Run(cmd.Context(), ctrl, save, run)
		},
	}
	addOutputFlags(cmd)
	return cmd
}

// editorTarget resolves the export file of the editor. It never returns an
// empty path.
func editorTarget(cfg *config.Config) (path, format string) {
	path, format = cfg.Output.Path, cfg.Output.Format
	if format == config.FormatAuto {
		if path == "" {
			format = render.FormatHTML
		} else {
			format = autoFormat(path, nil)
		}
	}
	if path == "" {
		return export.DefaultFileName(cfg.Output.Title, format), format
	}
	return intoDir(path, cfg.Output.Title, format), format
}
