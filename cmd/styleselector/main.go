package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	stylesPath string
	language   string
)

var rootCmd = &cobra.Command{
	Use:   "styleselector",
	Short: "Apply catalog styles to image generation prompts",
	Long: `Style Selector rewrites positive and negative prompts using templates
from a JSON style catalog. Styles can be fixed, applied in catalog order or
drawn at random, and display names can be shown in English, Chinese or Japanese.`,
	SilenceUsage: true,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	// Set up logging
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	rootCmd.PersistentFlags().StringVar(&stylesPath, "styles", "", "Style catalog file (overrides STYLES_PATH)")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "Display language: default, chinese or japanese (overrides STYLE_LANGUAGE)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
