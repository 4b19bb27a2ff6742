package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories used by the active catalog",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(context.Background(), cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, c := range a.Session.ListCategories() {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}
