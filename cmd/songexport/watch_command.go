package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/CEuchner/churchtools-song-export/internal/selection"
	"github.com/CEuchner/churchtools-song-export/internal/settings"
	"github.com/CEuchner/churchtools-song-export/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-export whenever the settings document changes",
		Long: `Watch exports once and then watches the settings document. Every saved
change is applied to the session and the export is written again.

A document that fails to apply is reported and the previous selection is
kept.`,
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
			ctrl := selection.NewController(state, ctx.logger)

			run := func() error {
				return writeOutput(path, cmd.OutOrStdout(), func(w io.Writer) error {
					_, err := exp.Run(cmd.Context(), ctrl.Snapshot(), w)
					return err
				})
			}
			if err := run(); err != nil {
				return err
			}

			w, err := watch.NewWatcher(ctx.config.SettingsPath)
			if err != nil {
				return err
			}
			w.Debounce = debounce
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()

			ctx.logger.Info("watching settings", "path", w.Path)
			return watchLoop(cmd.Context(), w.Changes, ctrl, run, ctx.logger)
		},
	}
	addOutputFlags(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before a change is applied")
	return cmd
}

// watchLoop applies every change to ctrl and re-runs the export until ctx is
// done or changes is closed.
func watchLoop(ctx context.Context, changes <-chan watch.Change, ctrl *selection.Controller, run func() error, log *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			if change.Removed {
				log.Warn("settings document removed, keeping current selection", "path", change.Path)
				continue
			}

			err := ctrl.Restore(func(s *selection.State) error {
				_, err := settings.Load(change.Path, s)
				return err
			})
			if err != nil {
				log.Error("settings rejected", "path", change.Path, "error", err)
				continue
			}
			if err := run(); err != nil {
				log.Error("export failed", "error", err)
				continue
			}
			log.Info("settings applied, export updated", "path", change.Path)
		}
	}
}
