package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/abdulachik/styleselector/internal/config"
	"github.com/abdulachik/styleselector/internal/db"
	"github.com/abdulachik/styleselector/internal/inject"
	"github.com/abdulachik/styleselector/internal/style"
)

var (
	injectStyles           []string
	injectNegatives        []string
	injectMode             string
	injectAtBeginning      bool
	injectUseCurrentPrompt bool
	injectCurrentPrompt    string
	injectCurrentNegative  string
	injectCount            int
	injectCategory         string
	injectPromptsFile      string
	injectPreset           string
	injectNoHistory        bool
	injectJSON             bool
)

var injectCmd = &cobra.Command{
	Use:   "inject [prompt...]",
	Short: "Apply styles to a batch of prompts",
	Long: `Apply styles to every prompt of a batch, as the image generation hook does.

Each argument is one prompt of the batch. Use --prompts-file to read one prompt
per line instead ("-" reads stdin). Options can come from a TOML preset; flags
given on the command line override the preset.

Modes:
  fixed                the selected styles on every prompt (default)
  all-in-order         prompt i gets catalog style i, wrapping around
  randomize-once       one random sample shared by the whole batch
  randomize-per-index  a new random sample for every prompt

Example:
  styleselector inject "a cat" "a dog" --style sai-anime --negative blurry
  styleselector inject --prompts-file prompts.txt --mode randomize-per-index --count 2
  styleselector inject "a cat" --preset presets/anime.toml`,
	RunE: runInject,
}

func init() {
	f := injectCmd.Flags()
	f.StringArrayVarP(&injectStyles, "style", "s", nil, "Style slot (repeatable, up to 4)")
	f.StringArrayVar(&injectNegatives, "negative", nil, "Negative prompt for the batch index in order (repeatable)")
	f.StringVar(&injectMode, "mode", string(inject.ModeFixed), "Injection mode")
	f.BoolVar(&injectAtBeginning, "at-beginning", false, "Insert style text before the prompt")
	f.BoolVar(&injectUseCurrentPrompt, "use-current-prompt", false, "Also inject --current-prompt/--current-negative")
	f.StringVar(&injectCurrentPrompt, "current-prompt", "", "Positive text injected with --use-current-prompt")
	f.StringVar(&injectCurrentNegative, "current-negative", "", "Negative text injected with --use-current-prompt")
	f.IntVar(&injectCount, "count", inject.DefaultRandomCount, "Styles per random sample (1-3)")
	f.StringVar(&injectCategory, "category", "", "Category for random selection (overrides STYLE_RANDOM_CATEGORY)")
	f.StringVar(&injectPromptsFile, "prompts-file", "", "Read prompts from a file, one per line")
	f.StringVar(&injectPreset, "preset", "", "TOML preset with injection options")
	f.BoolVar(&injectNoHistory, "no-history", false, "Do not record the run in the history database")
	f.BoolVar(&injectJSON, "json", false, "Print the batch as JSON")
	rootCmd.AddCommand(injectCmd)
}

func runInject(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	prompts, err := injectPrompts(args)
	if err != nil {
		return err
	}
	if len(prompts) == 0 {
		return fmt.Errorf("no prompts given")
	}

	opts, err := injectOptions(cmd, cfg)
	if err != nil {
		return err
	}

	recordHistory := !injectNoHistory && opts.Enabled
	if recordHistory {
		if err := cfg.ValidateForHistory(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
	}

	a, err := newApp(ctx, cfg, recordHistory)
	if err != nil {
		return err
	}
	defer a.Close()

	batch := &inject.Batch{
		Prompts:         prompts,
		NegativePrompts: injectNegativesFor(len(prompts)),
	}
	report := a.Injector.Apply(batch, opts)

	var runID string
	if recordHistory {
		run, err := a.Store.RecordRun(ctx, db.RunRecord{
			Catalog:          a.Session.Catalog().Source(),
			Mode:             string(report.Mode),
			Language:         string(report.Language),
			Category:         opts.Category,
			AtBeginning:      opts.AtBeginning,
			UseCurrentPrompt: opts.UseCurrentPrompt,
			StylesUsed:       report.StylesUsed,
			Prompts:          batch.Prompts,
			NegativePrompts:  batch.NegativePrompts,
		})
		if err != nil {
			slog.Warn("failed to record run", "error", err)
		} else {
			runID = run.ID
			slog.Debug("run recorded", "run_id", runID)
		}
	}

	out := cmd.OutOrStdout()
	if injectJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(struct {
			RunID string `json:"run_id,omitempty"`
			*inject.Batch
			StylesUsed []string `json:"styles_used"`
		}{RunID: runID, Batch: batch, StylesUsed: report.StylesUsed})
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"#", "Styles", "Positive", "Negative"})
	for i, p := range batch.Prompts {
		t.AppendRow(table.Row{i, strings.Join(report.PerIndex[i], ", "), p, batch.NegativePrompts[i]})
	}
	t.Render()

	if runID != "" {
		fmt.Fprintf(out, "Run %s recorded.\n", runID)
	}
	return nil
}

// injectOptions builds options from the preset, then applies explicitly set flags.
func injectOptions(cmd *cobra.Command, cfg *config.Config) (inject.Options, error) {
	opts := inject.Options{
		Enabled:     true,
		Mode:        inject.ModeFixed,
		RandomCount: inject.DefaultRandomCount,
		Category:    cfg.RandomCategory,
	}
	if injectPreset != "" {
		preset, err := config.LoadPreset(injectPreset)
		if err != nil {
			return opts, err
		}
		opts = preset.Options()
		if cmd.Flags().Changed("lang") {
			opts.Language = cfg.Language
		}
	}

	changed := cmd.Flags().Changed
	if changed("style") {
		if len(injectStyles) > 4 {
			return opts, fmt.Errorf("at most 4 styles are allowed, got %d", len(injectStyles))
		}
		opts.Styles = style.ParseKeys(injectStyles)
	}
	if changed("mode") || injectPreset == "" {
		mode, err := inject.ParseMode(injectMode)
		if err != nil {
			return opts, err
		}
		opts.Mode = mode
	}
	if changed("at-beginning") {
		opts.AtBeginning = injectAtBeginning
	}
	if changed("use-current-prompt") {
		opts.UseCurrentPrompt = injectUseCurrentPrompt
	}
	if changed("current-prompt") {
		opts.CurrentPrompt = injectCurrentPrompt
	}
	if changed("current-negative") {
		opts.CurrentNegative = injectCurrentNegative
	}
	if changed("count") {
		if injectCount < 1 || injectCount > style.MaxSample {
			return opts, fmt.Errorf("--count must be between 1 and %d", style.MaxSample)
		}
		opts.RandomCount = injectCount
	}
	if changed("category") {
		opts.Category = injectCategory
	}
	return opts, nil
}

func injectPrompts(args []string) ([]string, error) {
	if injectPromptsFile == "" {
		return append([]string(nil), args...), nil
	}

	var r io.Reader = os.Stdin
	if injectPromptsFile != "-" {
		f, err := os.Open(injectPromptsFile)
		if err != nil {
			return nil, fmt.Errorf("open prompts file: %w", err)
		}
		defer f.Close()
		r = f
	}

	prompts := append([]string(nil), args...)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			prompts = append(prompts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read prompts: %w", err)
	}
	return prompts, nil
}

func injectNegativesFor(n int) []string {
	negatives := make([]string, n)
	copy(negatives, injectNegatives)
	return negatives
}
