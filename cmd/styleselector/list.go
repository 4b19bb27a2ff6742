package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/abdulachik/styleselector/internal/style"
)

var (
	listCategory string
	listNames    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the styles in the active catalog",
	Long: `List the styles in the active catalog with their display name in the
selected language and their categories.

Example:
  styleselector list --category anime
  styleselector list --names --lang chinese`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", style.AllCategories, "Only show styles tagged with this category")
	listCmd.Flags().BoolVar(&listNames, "names", false, "Print the selector list (display names, Random Select first)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(context.Background(), cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if listNames {
		for _, name := range a.Session.ListStyleNames() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	catalog := a.Session.Catalog()
	records := catalog.Candidates(listCategory)
	lang := a.Session.Language()

	t := newTable(out)
	t.AppendHeader(table.Row{"Name", "Display", "Category"})
	for _, rec := range records {
		t.AppendRow(table.Row{rec.Name, rec.DisplayName(lang), rec.Category})
	}
	t.AppendFooter(table.Row{"", "Total", len(records)})
	t.Render()

	if catalog.Skipped() > 0 {
		fmt.Fprintf(out, "%d entries without a name were skipped.\n", catalog.Skipped())
	}
	return nil
}
