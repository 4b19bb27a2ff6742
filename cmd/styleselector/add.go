package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abdulachik/styleselector/internal/style"
)

var addRecord style.Record

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a style to the active catalog",
	Long: `Append a new style to the active catalog file. The prompt should contain
{prompt} where the user's text goes.

Example:
  styleselector add --styles styles/my_styles.json \
    --name neon --prompt "neon lit {prompt}, cyberpunk" --negative "daylight" --category scifi`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addRecord.Name, "name", "", "Canonical style name")
	addCmd.Flags().StringVar(&addRecord.Prompt, "prompt", "", "Positive template containing {prompt}")
	addCmd.Flags().StringVar(&addRecord.NegativePrompt, "negative", "", "Negative prompt")
	addCmd.Flags().StringVar(&addRecord.NameZH, "namezh", "", "Chinese display name")
	addCmd.Flags().StringVar(&addRecord.NameJP, "namejp", "", "Japanese display name")
	addCmd.Flags().StringVar(&addRecord.Category, "category", "", "Comma separated categories")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("prompt")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(context.Background(), cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Session.Append(addRecord); err != nil {
		return fmt.Errorf("add style: %w", err)
	}

	slog.Info("style added", "name", addRecord.Name, "path", a.Session.Path())
	fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %s (%d styles)\n", addRecord.Name, a.Session.Path(), a.Session.Catalog().Len())
	return nil
}
