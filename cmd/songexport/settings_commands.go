package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CEuchner/churchtools-song-export/internal/selection"
	"github.com/CEuchner/churchtools-song-export/internal/settings"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage the settings document",
	}
	cmd.AddCommand(newSettingsInitCommand(ctx))
	cmd.AddCommand(newSettingsShowCommand(ctx))
	cmd.AddCommand(newSettingsApplyCommand(ctx))
	cmd.AddCommand(newSettingsPathCommand(ctx))
	return cmd
}

func newSettingsInitCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings document with the default selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ctx.config.SettingsPath
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("settings document %s already exists (use --force to overwrite)", path)
			}

			lib, err := ctx.loadLibrary(cmd)
			if err != nil {
				return err
			}
			state := selection.NewState(lib.Tags, lib.Categories)
			if err := settings.Save(path, settings.Build(state, time.Now())); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing document")
	return cmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective selection",
		Long: `Show prints the selection that an export would use: the saved settings
document applied to the current song library.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := ctx.loadLibrary(cmd)
			if err != nil {
				return err
			}
			state, err := ctx.sessionState(lib)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return settings.Write(out, settings.Build(state, time.Now()))
			}
			fmt.Fprintln(out, tagSelectionTable(state))
			fmt.Fprintln(out, detailSelectionTable(state))
			fmt.Fprintln(out, optionsTable(state))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the settings document as JSON")
	return cmd
}

func newSettingsApplyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <file>",
		Short: "Apply a settings document and save the result",
		Long: `Apply reads a settings document, for example one exported on another
machine, applies it to the current selection and saves the result as the
settings document.

Unknown tags and categories are dropped. A document that is not a JSON
object is rejected and nothing is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			lib, err := ctx.loadLibrary(cmd)
			if err != nil {
				return err
			}
			state, err := ctx.sessionState(lib)
			if err != nil {
				return err
			}
			if err := settings.Apply(data, state); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			path := ctx.config.SettingsPath
			if err := settings.Save(path, settings.Build(state, time.Now())); err != nil {
				return err
			}
			ctx.logger.Info("settings applied", "from", args[0], "to", path)
			return nil
		},
	}
}

func newSettingsPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings document path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), ctx.config.SettingsPath)
			return nil
		},
	}
}

func tagSelectionTable(s *selection.State) string {
	rows := make([][]string, 0, len(s.OrderedTags))
	for i, tag := range s.OrderedTags {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			tag.Name,
			yesNo(s.SelectedTagIDs.Has(tag.ID)),
			yesNo(s.Grouped(selection.TagContext(tag.ID))),
		})
	}
	return renderTable([]string{"#", "Tag", "Selected", "A-Z"}, rows, []columnAlignment{alignRight})
}

func detailSelectionTable(s *selection.State) string {
	rows := make([][]string, 0, len(s.OrderedDetails))
	for i, field := range s.OrderedDetails {
		f := s.FormattingOf(field.ID)
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			field.Label,
			yesNo(s.SelectedDetails.Has(field.ID)),
			strconv.Itoa(f.FontSize),
			yesNo(f.Bold),
			yesNo(f.Italic),
		})
	}
	return renderTable(
		[]string{"#", "Column", "Selected", "Size", "Bold", "Italic"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	)
}

func optionsTable(s *selection.State) string {
	h := s.Header

	var styles []string
	for _, opt := range []struct {
		on   bool
		name string
	}{{h.Bold, "bold"}, {h.Italic, "italic"}, {h.Underline, "underline"}, {h.Boxed, "boxed"}} {
		if opt.on {
			styles = append(styles, opt.name)
		}
	}
	if len(styles) == 0 {
		styles = append(styles, "plain")
	}

	rows := [][]string{
		{"Categories", fmt.Sprintf("%d of %d selected", s.SelectedCategoryIDs.Len(), len(s.Categories))},
		{"All songs section", yesNo(s.IncludeAllSongs)},
		{"All songs A-Z", yesNo(s.Grouped(selection.AllSongsContext))},
		{"Title alignment", string(h.Alignment)},
		{"Title size", strconv.Itoa(h.FontSize) + "pt"},
		{"Title style", strings.Join(styles, ", ")},
	}
	return renderTable([]string{"Option", "Value"}, rows, nil)
}
