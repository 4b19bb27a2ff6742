package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdulachik/styleselector/internal/style"
)

var (
	resolveNegative string
	resolveAppend   bool
	resolveCategory string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <style> [prompt...]",
	Short: "Resolve one style against a prompt",
	Long: `Resolve a style against a positive and negative prompt and print both.

The style may be a canonical name, a display name in the selected language,
"Random Select" or "base".

Example:
  styleselector resolve sai-anime "a cat" --negative "blurry"
  styleselector resolve "Random Select" "a cat" --category photography`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveNegative, "negative", "", "Negative prompt")
	resolveCmd.Flags().BoolVar(&resolveAppend, "append", false, "Put the style text before the prompt")
	resolveCmd.Flags().StringVar(&resolveCategory, "category", "", "Category for Random Select (overrides STYLE_RANDOM_CATEGORY)")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(context.Background(), cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if resolveCategory != "" {
		a.Session.SetCategory(resolveCategory)
	}

	key := style.ParseKey(args[0])
	prompt := strings.Join(args[1:], " ")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Positive: %s\n", a.Session.ResolvePositive(key, prompt, resolveAppend))
	fmt.Fprintf(out, "Negative: %s\n", a.Session.ResolveNegative(key, resolveNegative))
	return nil
}
