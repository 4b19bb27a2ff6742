package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abdulachik/styleselector/internal/style"
)

var pickCmd = &cobra.Command{
	Use:   "pick [category]",
	Short: "Print one random style name",
	Long: `Pick one style at random and print its display name in the selected language.

Without a category the configured random category is used.

Example:
  styleselector pick
  styleselector pick photography --lang zh`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(context.Background(), cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	category := a.Session.Category()
	if len(args) == 1 {
		category = args[0]
	}
	return printPick(cmd.OutOrStdout(), a.Session, category)
}

func printPick(w io.Writer, s *style.Session, category string) error {
	name, ok := s.PickDisplay(category)
	if !ok {
		return fmt.Errorf("%w: no styles in category %q", style.ErrEmptyCatalog, category)
	}
	fmt.Fprintln(w, name)
	return nil
}
