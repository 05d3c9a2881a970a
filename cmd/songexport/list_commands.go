package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/CEuchner/churchtools-song-export/internal/library"
	"github.com/CEuchner/churchtools-song-export/internal/model"
	"github.com/CEuchner/churchtools-song-export/internal/selection"
)

func newFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "fields",
		Short:       "List the detail columns",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), fieldsTable())
			return nil
		},
	}
}

func fieldsTable() string {
	defaults := selection.NewSet(selection.DefaultDetails...)
	formatting := selection.DefaultFormatting()

	var rows [][]string
	for _, f := range model.DetailCatalog() {
		fmtg := formatting[f.ID]
		rows = append(rows, []string{
			string(f.ID),
			f.Label,
			yesNo(defaults.Has(f.ID)),
			strconv.Itoa(fmtg.FontSize),
			yesNo(fmtg.Bold),
		})
	}
	return renderTable(
		[]string{"ID", "Label", "Default", "Size", "Bold"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func newTagsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the song tags with their song counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := ctx.loadLibrary(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tagsTable(lib))
			return nil
		},
	}
}

func tagsTable(lib *library.Library) string {
	counts := make(map[int]int)
	for _, song := range lib.Songs {
		for _, tag := range song.Tags {
			counts[tag.ID]++
		}
	}

	rows := make([][]string, 0, len(lib.Tags))
	for _, tag := range lib.Tags {
		rows = append(rows, []string{strconv.Itoa(tag.ID), tag.Name, strconv.Itoa(counts[tag.ID])})
	}
	return renderTable([]string{"ID", "Tag", "Songs"}, rows, []columnAlignment{alignRight, alignLeft, alignRight})
}

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the song categories with their song counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := ctx.loadLibrary(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), categoriesTable(lib))
			return nil
		},
	}
}

func categoriesTable(lib *library.Library) string {
	counts := make(map[int]int)
	uncategorized := 0
	for _, song := range lib.Songs {
		if song.Category == nil {
			uncategorized++
			continue
		}
		counts[song.Category.ID]++
	}

	rows := make([][]string, 0, len(lib.Categories)+1)
	for _, c := range lib.Categories {
		rows = append(rows, []string{strconv.Itoa(c.ID), c.Name, strconv.Itoa(counts[c.ID])})
	}
	if uncategorized > 0 {
		rows = append(rows, []string{"-", "(none)", strconv.Itoa(uncategorized)})
	}
	return renderTable([]string{"ID", "Category", "Songs"}, rows, []columnAlignment{alignRight, alignLeft, alignRight})
}

// loadLibrary opens the configured source and loads the library.
func (c *commandContext) loadLibrary(cmd *cobra.Command) (*library.Library, error) {
	src, closeSource, err := c.openSource(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer closeSource()

	lib, err := src.Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("load song library: %w", err)
	}
	return lib, nil
}
