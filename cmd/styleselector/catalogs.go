package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/abdulachik/styleselector/internal/style"
)

var catalogsCmd = &cobra.Command{
	Use:   "catalogs",
	Short: "List the catalog files in STYLES_DIR",
	Long: `List the JSON catalog files in STYLES_DIR, marking the active one.

Select a catalog with --styles or STYLES_PATH.`,
	RunE: runCatalogs,
}

func init() {
	rootCmd.AddCommand(catalogsCmd)
}

func runCatalogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	names, err := style.ListCatalogFiles(cfg.StylesDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("list catalogs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintf(out, "No catalogs in %s. Run 'styleselector init' to create one.\n", cfg.StylesDir)
		return nil
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"", "Catalog", "Styles"})
	for _, name := range names {
		path, err := style.ResolveCatalogFile(cfg.StylesDir, name)
		if err != nil {
			continue
		}

		active := ""
		if filepath.Clean(path) == filepath.Clean(cfg.StylesPath) {
			active = "*"
		}

		count := "invalid"
		if c, err := style.LoadFile(path); err == nil {
			count = fmt.Sprint(c.Len())
		}
		t.AppendRow(table.Row{active, name, count})
	}
	t.Render()
	return nil
}
