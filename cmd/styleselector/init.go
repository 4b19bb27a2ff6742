package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdulachik/styleselector/internal/style"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the bundled style catalog to disk",
	Long: `Write the bundled style catalog to a file so it can be edited and extended.

The default path is STYLES_DIR/sdxl_styles.json.

Example:
  styleselector init
  styleselector init my_styles.json --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.StylesDir, "sdxl_styles.json")
	if len(args) == 1 {
		path = args[0]
	}

	if err := style.WriteDefault(path, initForce); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}

	slog.Info("catalog written", "path", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\nSet STYLES_PATH=%s or pass --styles to use it.\n", path, path)
	return nil
}
