package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/styleselector/internal/inject"
	"github.com/abdulachik/styleselector/internal/style"
)

var (
	copyStyles   []string
	copyPrompt   string
	copyNegative string
)

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Merge selected styles into a prompt",
	Long: `Merge the text of up to four selected styles into a prompt and negative
prompt, the way the "copy to prompt" button does.

Example:
  styleselector copy --style sai-anime --style sai-line-art --prompt "a cat"`,
	RunE: runCopy,
}

func init() {
	copyCmd.Flags().StringArrayVarP(&copyStyles, "style", "s", nil, "Style to merge (repeatable)")
	copyCmd.Flags().StringVar(&copyPrompt, "prompt", "", "Existing positive prompt")
	copyCmd.Flags().StringVar(&copyNegative, "negative", "", "Existing negative prompt")
	_ = copyCmd.MarkFlagRequired("style")
	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(context.Background(), cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	positive, negative := inject.CopyToPrompt(a.Session, copyPrompt, copyNegative, style.ParseKeys(copyStyles))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Positive: %s\n", positive)
	fmt.Fprintf(out, "Negative: %s\n", negative)
	return nil
}
