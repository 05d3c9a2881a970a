package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "songexport",
		Short:         "Export ChurchTools song lists",
		Long:          "songexport loads the song library from ChurchTools or a local source and exports it as printable song lists grouped by tag.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", "", "config file (default .songexport.yaml)")
	flags.String("source", "", "song source: churchtools, json, sqlite or mp3")
	flags.String("path", "", "path of the json, sqlite or mp3 source")
	flags.String("url", "", "ChurchTools base URL")
	flags.String("settings", "", "settings document path")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")

	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))
	rootCmd.AddCommand(newEditCommand(ctx))
	rootCmd.AddCommand(newSettingsCommand(ctx))
	rootCmd.AddCommand(newFieldsCommand())
	rootCmd.AddCommand(newTagsCommand(ctx))
	rootCmd.AddCommand(newCategoriesCommand(ctx))
	rootCmd.AddCommand(newImportSQLiteCommand(ctx))
	rootCmd.AddCommand(newDumpJSONCommand(ctx))

	return rootCmd
}

// addOutputFlags registers the flags of commands that render an export.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "output format: auto, text, markdown, html, csv or terminal")
	cmd.Flags().StringP("output", "o", "", "output file or directory (default stdout)")
	cmd.Flags().String("title", "", "document title")
}
